package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/leavedesk/internal/common"
	"github.com/dmitrijs2005/leavedesk/internal/server/models"
	"github.com/dmitrijs2005/leavedesk/internal/server/services"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type registerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	ManagerID *int64 `json:"manager_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type applyRequest struct {
	LeaveType string `json:"leave_type"`
	Comment   string `json:"comment"`
}

type decisionRequest struct {
	Approve bool `json:"approve"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ManagerID *int64 `json:"manager_id,omitempty"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type managerResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type leaveResponse struct {
	ID                int64  `json:"id"`
	EmployeeID        int64  `json:"employee_id"`
	EmployeeName      string `json:"employee_name,omitempty"`
	ManagerID         *int64 `json:"manager_id,omitempty"`
	LeaveType         string `json:"leave_type"`
	Comment           string `json:"comment,omitempty"`
	Status            string `json:"status"`
	DateOfApplication string `json:"date_of_application"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		ManagerID: u.ManagerID,
	}
}

func toTokenResponse(u *models.User, pair *services.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         toUserResponse(u),
	}
}

func toLeaveResponse(lr *models.LeaveRequest) leaveResponse {
	return leaveResponse{
		ID:                lr.ID,
		EmployeeID:        lr.EmployeeID,
		ManagerID:         lr.ManagerID,
		LeaveType:         string(lr.LeaveType),
		Comment:           lr.Comment,
		Status:            string(lr.Status),
		DateOfApplication: lr.DateOfApplication.Format(dateLayout),
	}
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role, req.ManagerID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "manager not found"})
		default:
			s.log(c).Error(c.Request.Context(), "register failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, pair, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		s.log(c).Error(c.Request.Context(), "login failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toTokenResponse(user, pair))
}

func (s *Server) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pair, err := s.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrRefreshTokenExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}
		s.log(c).Error(c.Request.Context(), "token refresh failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (s *Server) managers(c *gin.Context) {
	list, err := s.users.Managers(c.Request.Context())
	if err != nil {
		s.log(c).Error(c.Request.Context(), "manager listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	result := make([]managerResponse, 0, len(list))
	for _, m := range list {
		result = append(result, managerResponse{ID: m.ID, Name: m.Name})
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) applyLeave(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lr, err := s.leaves.Apply(c.Request.Context(), principal, req.LeaveType, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "only employees can apply for leave"})
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			s.log(c).Error(c.Request.Context(), "leave application failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, toLeaveResponse(lr))
}

func (s *Server) myRequests(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	list, err := s.leaves.MyRequests(c.Request.Context(), principal)
	if err != nil {
		s.log(c).Error(c.Request.Context(), "request listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	result := make([]leaveResponse, 0, len(list))
	for i := range list {
		result = append(result, toLeaveResponse(&list[i]))
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) teamRequests(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	list, err := s.leaves.TeamRequests(c.Request.Context(), principal)
	if err != nil {
		if errors.Is(err, common.ErrorForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "only managers can view team requests"})
			return
		}
		s.log(c).Error(c.Request.Context(), "team listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	result := make([]leaveResponse, 0, len(list))
	for i := range list {
		r := toLeaveResponse(&list[i].LeaveRequest)
		r.EmployeeName = list[i].EmployeeName
		result = append(result, r)
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) decide(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || requestID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.leaves.Decide(c.Request.Context(), principal, requestID, req.Approve); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "leave request not found"})
		case errors.Is(err, common.ErrorForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to decide this request"})
		case errors.Is(err, common.ErrorInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "request already decided"})
		default:
			s.log(c).Error(c.Request.Context(), "decision failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
