package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/leavedesk/internal/common"
	"github.com/dmitrijs2005/leavedesk/internal/dbx"
	"github.com/dmitrijs2005/leavedesk/internal/server/auth"
	"github.com/dmitrijs2005/leavedesk/internal/server/config"
	"github.com/dmitrijs2005/leavedesk/internal/server/models"
	"github.com/dmitrijs2005/leavedesk/internal/server/repositories/repomanager"
)

// nowFn is a seam for tests that pin the application date.
var nowFn = time.Now

// LeaveService is the leave request ledger together with the access-control
// layer that filters it per principal:
//   - Apply: employee files a request (always created Waiting)
//   - MyRequests / TeamRequests: principal-filtered listings
//   - Decide: manager approves or rejects
//
// The repositories below it stay trusted-caller components; every
// authorization guard lives here.
type LeaveService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	strictDecisions bool
}

// NewLeaveService constructs a LeaveService using repositories and server config.
func NewLeaveService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *LeaveService {
	return &LeaveService{
		db:              db,
		repomanager:     m,
		strictDecisions: cfg.StrictDecisions,
	}
}

// Apply files a new leave request on behalf of the principal. The employee's
// current manager is snapshotted onto the record inside the same transaction,
// so a later reassignment never retargets an already-filed request. The
// application date is the server's current calendar date.
func (s *LeaveService) Apply(ctx context.Context, principal *auth.Principal, leaveType, comment string) (*models.LeaveRequest, error) {
	if principal.Role != models.RoleEmployee {
		return nil, common.ErrorForbidden
	}

	parsedType, err := models.ParseLeaveType(leaveType)
	if err != nil {
		return nil, err
	}

	var created *models.LeaveRequest
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		employee, err := s.repomanager.Users(tx).GetByID(ctx, principal.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error resolving employee: %v", err)
		}

		req := &models.LeaveRequest{
			EmployeeID:        employee.ID,
			ManagerID:         employee.ManagerID,
			LeaveType:         parsedType,
			Comment:           comment,
			Status:            models.StatusWaiting,
			DateOfApplication: truncateToDate(nowFn()),
		}

		created, err = s.repomanager.Leaves(tx).Create(ctx, req)
		if err != nil {
			return fmt.Errorf("error creating leave request: %v", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// MyRequests lists the principal's own requests in insertion order. The
// employee id is always the principal's; callers cannot list anyone else.
func (s *LeaveService) MyRequests(ctx context.Context, principal *auth.Principal) ([]models.LeaveRequest, error) {
	requests, err := s.repomanager.Leaves(s.db).ListByEmployee(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing leave requests: %w", err)
	}
	return requests, nil
}

// TeamRequests lists the requests assigned to the principal, joined with each
// submitting employee's name. Only managers may call it, and only for their
// own id; there is no cross-manager visibility.
func (s *LeaveService) TeamRequests(ctx context.Context, principal *auth.Principal) ([]models.ManagerLeaveRequest, error) {
	if principal.Role != models.RoleManager {
		return nil, common.ErrorForbidden
	}
	requests, err := s.repomanager.Leaves(s.db).ListByManager(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing team requests: %w", err)
	}
	return requests, nil
}

// Decide approves or rejects a request. In strict mode (the default) the
// principal must be the request's assigned manager and the request must still
// be Waiting; violating either yields ErrorForbidden or
// ErrorInvalidTransition. With strict decisions disabled the status is
// overwritten unconditionally, reproducing the legacy system for migration
// testing. The read takes the row lock (FOR UPDATE) inside the transaction,
// so two concurrent decisions serialize and the second one sees the first's
// terminal status.
func (s *LeaveService) Decide(ctx context.Context, principal *auth.Principal, requestID int64, approve bool) error {
	if principal.Role != models.RoleManager {
		return common.ErrorForbidden
	}

	target := models.StatusRejected
	if approve {
		target = models.StatusApproved
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Leaves(tx)

		req, err := repo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error loading leave request: %v", err)
		}

		if s.strictDecisions {
			if req.ManagerID == nil || *req.ManagerID != principal.UserID {
				return common.ErrorForbidden
			}
			if !req.Status.CanTransition(target) {
				return common.ErrorInvalidTransition
			}
		}

		if err := repo.UpdateStatus(ctx, requestID, target); err != nil {
			return fmt.Errorf("error updating leave request: %v", err)
		}
		return nil
	})
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
