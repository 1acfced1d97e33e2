// Package httpapi exposes the core services over an HTTP JSON API. It is the
// boundary the presentation layer talks to; handlers translate sentinel
// errors into status codes and never leak password digests.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/leavedesk/internal/logging"
	"github.com/dmitrijs2005/leavedesk/internal/server/auth"
	"github.com/dmitrijs2005/leavedesk/internal/server/models"
	"github.com/dmitrijs2005/leavedesk/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// UserService is the directory surface the API needs. *services.UserService
// satisfies it; tests provide stubs.
type UserService interface {
	Register(ctx context.Context, name, email, password, role string, managerID *int64) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Managers(ctx context.Context) ([]models.Manager, error)
}

// LeaveService is the ledger surface the API needs. *services.LeaveService
// satisfies it; tests provide stubs.
type LeaveService interface {
	Apply(ctx context.Context, principal *auth.Principal, leaveType, comment string) (*models.LeaveRequest, error)
	MyRequests(ctx context.Context, principal *auth.Principal) ([]models.LeaveRequest, error)
	TeamRequests(ctx context.Context, principal *auth.Principal) ([]models.ManagerLeaveRequest, error)
	Decide(ctx context.Context, principal *auth.Principal, requestID int64, approve bool) error
}

type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	leaves    LeaveService
	jwtSecret []byte
	engine    *gin.Engine
}

func NewServer(a string, l logging.Logger, us UserService, ls LeaveService, secretKey string) *Server {
	s := &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		leaves:    ls,
		jwtSecret: []byte(secretKey),
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestIDMiddleware())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	engine.Use(cors.New(config))

	api := engine.Group("/api")
	{
		api.GET("/ping", s.ping)
		api.GET("/managers", s.managers)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", s.register)
			authRoutes.POST("/login", s.login)
			authRoutes.POST("/refresh", s.refresh)
		}

		leaveRoutes := api.Group("/leaves")
		leaveRoutes.Use(s.authMiddleware())
		{
			leaveRoutes.POST("", s.applyLeave)
			leaveRoutes.GET("/my", s.myRequests)
			leaveRoutes.GET("/team", s.teamRequests)
			leaveRoutes.POST("/:id/decision", s.decide)
		}
	}

	return engine
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
