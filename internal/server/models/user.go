// Package models defines named-field record types for the entities persisted
// by the server, plus the enumerations governing them.
package models

import (
	"time"

	"github.com/dmitrijs2005/leavedesk/internal/common"
)

// Role determines which operations a user may perform.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
)

// ParseRole validates a role string coming from an external caller.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee, RoleManager:
		return Role(s), nil
	}
	return "", common.ErrorValidation
}

// User is a directory account. ManagerID is nil for managers, and may also be
// nil for an employee who signed up while no manager existed yet.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	ManagerID    *int64
	CreatedAt    time.Time
}

// Manager is the (id, name) projection used to populate the manager selector
// at signup time.
type Manager struct {
	ID   int64
	Name string
}
