// Package services contains server-side business logic. This file implements
// UserService, which handles the user directory: signup, login and
// issuing/refreshing JWTs plus server-stored refresh tokens.
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
	"github.com/dmitrijs2005/leavedesk/internal/server/cred"
	"github.com/dmitrijs2005/leavedesk/internal/server/models"
	"github.com/dmitrijs2005/leavedesk/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides directory and authentication operations:
//   - Register: create accounts, enforcing email uniqueness
//   - Login: verify credentials and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - Managers: list accounts available as approvers at signup time
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	creds                        *cred.Store
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, creds *cred.Store, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		creds:                        creds,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new account. The plaintext password is digested before it
// reaches the repository and is never stored or logged. A managerID may only
// be supplied for employees and must reference a manager account; managers
// never carry one. An employee must pick a manager whenever at least one is
// registered; only while the directory holds no managers at all may an
// employee sign up without one.
func (s *UserService) Register(ctx context.Context, name, email, password, role string, managerID *int64) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	parsedRole, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}

	if parsedRole == models.RoleManager && managerID != nil {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	if parsedRole == models.RoleEmployee && managerID == nil {
		managers, err := repo.ListManagers(ctx)
		if err != nil {
			return nil, common.ErrorInternal
		}
		if len(managers) > 0 {
			return nil, common.ErrorValidation
		}
	}

	if managerID != nil {
		manager, err := repo.GetByID(ctx, *managerID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorValidation
			}
			return nil, common.ErrorInternal
		}
		if manager.Role != models.RoleManager {
			return nil, common.ErrorValidation
		}
	}

	digest, err := s.creds.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Name: name, Email: email, PasswordHash: digest, Role: parsedRole, ManagerID: managerID}
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return u, nil
}

// Login verifies the provided password against the stored digest and, on
// success, returns the user record and a new TokenPair. Unknown email and
// wrong password collapse into the same ErrorUnauthorized so callers cannot
// distinguish the two cases.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}
	if !s.creds.Verify(password, user.PasswordHash) {
		return nil, nil, common.ErrorUnauthorized
	}
	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %v", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %v", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Managers lists the accounts an employee can pick as approver, ordered by id.
// An empty list is valid: in that case employees sign up without a manager.
func (s *UserService) Managers(ctx context.Context) ([]models.Manager, error) {
	managers, err := s.repomanager.Users(s.db).ListManagers(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return managers, nil
}

// --- helpers below ---

func (s *UserService) generateAccessToken(user *models.User) (string, error) {
	return auth.GenerateToken(user, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
