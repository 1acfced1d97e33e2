// Package httpclient implements the API client the CLI talks to the server
// with. It keeps the issued token pair in memory and transparently refreshes
// an expired access token once before failing a call.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/leavedesk/internal/common"
)

// User is the caller-visible part of a directory record. Password digests
// never cross the API.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ManagerID *int64 `json:"manager_id,omitempty"`
}

type Manager struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type LeaveRequest struct {
	ID                int64  `json:"id"`
	EmployeeID        int64  `json:"employee_id"`
	EmployeeName      string `json:"employee_name,omitempty"`
	ManagerID         *int64 `json:"manager_id,omitempty"`
	LeaveType         string `json:"leave_type"`
	Comment           string `json:"comment,omitempty"`
	Status            string `json:"status"`
	DateOfApplication string `json:"date_of_application"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	user         *User
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// IsLoggedIn reports whether the client holds an access token.
func (c *Client) IsLoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken != ""
}

// CurrentUser returns the user returned by the last successful Login, or nil.
func (c *Client) CurrentUser() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Logout drops the stored tokens. The refresh token stays valid server-side
// until it expires.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = ""
	c.refreshToken = ""
	c.user = nil
}

func (c *Client) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

func (c *Client) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// do sends one JSON request. When authed is true the access token is attached
// and a 401 response triggers a single refresh-and-retry.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any) (int, error) {
	status, err := c.doOnce(ctx, method, path, body, authed, out)

	if authed && status == http.StatusUnauthorized {
		if _, refreshToken := c.tokens(); refreshToken != "" {
			if rerr := c.refresh(ctx); rerr != nil {
				return status, err
			}
			return c.doOnce(ctx, method, path, body, authed, out)
		}
	}

	return status, err
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any, authed bool, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		access, _ := c.tokens()
		if access == "" {
			return 0, common.ErrorUnauthorized
		}
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("server unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		if er.Error == "" {
			er.Error = http.StatusText(resp.StatusCode)
		}
		return resp.StatusCode, fmt.Errorf("%w: %s", statusSentinel(resp.StatusCode), er.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// statusSentinel maps an HTTP status to one of the shared sentinel errors so
// callers can branch with errors.Is.
func statusSentinel(status int) error {
	switch status {
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorInvalidTransition
	}
	return common.ErrorInternal
}

func (c *Client) refresh(ctx context.Context) error {
	_, refreshToken := c.tokens()
	if refreshToken == "" {
		return common.ErrorUnauthorized
	}

	var pair tokenPairResponse
	_, err := c.do(ctx, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": refreshToken}, false, &pair)
	if err != nil {
		c.Logout()
		return common.ErrorUnauthorized
	}

	c.setTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

// Register creates an account. A 409 from the server means the email is
// already registered.
func (c *Client) Register(ctx context.Context, name, email, password, role string, managerID *int64) (*User, error) {
	body := map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	}
	if managerID != nil {
		body["manager_id"] = *managerID
	}

	var user User
	status, err := c.do(ctx, http.MethodPost, "/api/auth/register", body, false, &user)
	if err != nil {
		if status == http.StatusConflict {
			return nil, fmt.Errorf("%w: email already registered", common.ErrorDuplicateEmail)
		}
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the issued token pair for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp loginResponse
	_, err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, false, &resp)
	if err != nil {
		return nil, err
	}

	c.setTokens(resp.AccessToken, resp.RefreshToken)
	c.mu.Lock()
	c.user = &resp.User
	c.mu.Unlock()
	return &resp.User, nil
}

// Managers lists users who can be chosen as a manager. No auth required.
func (c *Client) Managers(ctx context.Context) ([]Manager, error) {
	var list []Manager
	if _, err := c.do(ctx, http.MethodGet, "/api/managers", nil, false, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Apply submits a new leave request on behalf of the logged-in employee.
func (c *Client) Apply(ctx context.Context, leaveType, comment string) (*LeaveRequest, error) {
	var lr LeaveRequest
	body := map[string]string{"leave_type": leaveType, "comment": comment}
	if _, err := c.do(ctx, http.MethodPost, "/api/leaves", body, true, &lr); err != nil {
		return nil, err
	}
	return &lr, nil
}

// MyRequests lists the logged-in user's own requests, oldest first.
func (c *Client) MyRequests(ctx context.Context) ([]LeaveRequest, error) {
	var list []LeaveRequest
	if _, err := c.do(ctx, http.MethodGet, "/api/leaves/my", nil, true, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// TeamRequests lists the requests assigned to the logged-in manager.
func (c *Client) TeamRequests(ctx context.Context) ([]LeaveRequest, error) {
	var list []LeaveRequest
	if _, err := c.do(ctx, http.MethodGet, "/api/leaves/team", nil, true, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Decide approves or rejects a pending request.
func (c *Client) Decide(ctx context.Context, requestID int64, approve bool) error {
	path := fmt.Sprintf("/api/leaves/%d/decision", requestID)
	_, err := c.do(ctx, http.MethodPost, path, map[string]bool{"approve": approve}, true, nil)
	return err
}
