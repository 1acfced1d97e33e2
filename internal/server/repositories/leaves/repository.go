package leaves

import (
	"context"

	"github.com/dmitrijs2005/leavedesk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, req *models.LeaveRequest) (*models.LeaveRequest, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]models.LeaveRequest, error)
	ListByManager(ctx context.Context, managerID int64) ([]models.ManagerLeaveRequest, error)
	UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus) error
}
