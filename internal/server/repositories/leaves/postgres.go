// Package leaves persists the leave request ledger. The repository is a
// trusted-caller component: authorization and transition checks live in the
// service layer above it.
package leaves

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/leavedesk/internal/common"
	"github.com/dmitrijs2005/leavedesk/internal/dbx"
	"github.com/dmitrijs2005/leavedesk/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, req *models.LeaveRequest) (*models.LeaveRequest, error) {

	query :=
		`INSERT INTO leave_requests (employee_id, manager_id, leave_type, comment, status, date_of_application)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	var managerID sql.NullInt64
	if req.ManagerID != nil {
		managerID = sql.NullInt64{Int64: *req.ManagerID, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		req.EmployeeID, managerID, req.LeaveType, req.Comment, req.Status, req.DateOfApplication).Scan(&req.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return req, nil
}

// GetByIDForUpdate reads one request and takes its row lock, so it must run
// inside a transaction. Concurrent decisions on the same request serialize on
// the lock instead of racing the status check.
func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.LeaveRequest, error) {
	query :=
		`SELECT id, employee_id, manager_id, leave_type, comment, status, date_of_application FROM leave_requests
		 WHERE id = $1
		 FOR UPDATE
		 `

	req := &models.LeaveRequest{}
	var managerID sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &managerID, &req.LeaveType, &req.Comment, &req.Status, &req.DateOfApplication)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if managerID.Valid {
		req.ManagerID = &managerID.Int64
	}

	return req, nil
}

// ListByEmployee returns the employee's requests in insertion order.
func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]models.LeaveRequest, error) {
	query :=
		`SELECT id, employee_id, manager_id, leave_type, comment, status, date_of_application FROM leave_requests
		 WHERE employee_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	requests := []models.LeaveRequest{}
	for rows.Next() {
		var req models.LeaveRequest
		var managerID sql.NullInt64
		if err := rows.Scan(&req.ID, &req.EmployeeID, &managerID, &req.LeaveType, &req.Comment, &req.Status, &req.DateOfApplication); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if managerID.Valid {
			req.ManagerID = &managerID.Int64
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return requests, nil
}

// ListByManager returns the requests assigned to the manager, joined with the
// submitting employee's name, in insertion order.
func (r *PostgresRepository) ListByManager(ctx context.Context, managerID int64) ([]models.ManagerLeaveRequest, error) {
	query :=
		`SELECT lr.id, lr.employee_id, lr.manager_id, lr.leave_type, lr.comment, lr.status, lr.date_of_application, u.name
		 FROM leave_requests lr
		 JOIN users u ON lr.employee_id = u.id
		 WHERE lr.manager_id = $1
		 ORDER BY lr.id
		 `

	rows, err := r.db.QueryContext(ctx, query, managerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	requests := []models.ManagerLeaveRequest{}
	for rows.Next() {
		var req models.ManagerLeaveRequest
		var reqManagerID sql.NullInt64
		if err := rows.Scan(&req.ID, &req.EmployeeID, &reqManagerID, &req.LeaveType, &req.Comment, &req.Status, &req.DateOfApplication, &req.EmployeeName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if reqManagerID.Valid {
			req.ManagerID = &reqManagerID.Int64
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return requests, nil
}

// UpdateStatus overwrites the request status unconditionally. A missing id is
// reported as common.ErrorNotFound.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus) error {
	query :=
		`UPDATE leave_requests SET status = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
