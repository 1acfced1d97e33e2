package users

import (
	"context"

	"github.com/dmitrijs2005/leavedesk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListManagers(ctx context.Context) ([]models.Manager, error)
}
