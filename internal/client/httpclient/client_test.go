package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/leavedesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func loginHandler(access, refresh string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(loginResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			User:         User{ID: 1, Name: "Alice", Email: "alice@example.com", Role: "Employee"},
		})
	}
}

func TestLogin_StoresTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", loginHandler("a1", "r1"))

	c, srv := newTestClient(mux)
	defer srv.Close()

	user, err := c.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "Alice", user.Name)
	assert.True(t, c.IsLoggedIn())
	require.NotNil(t, c.CurrentUser())
	assert.Equal(t, int64(1), c.CurrentUser().ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errorResponse{Error: "invalid email or password"})
	})

	c, srv := newTestClient(mux)
	defer srv.Close()

	_, err := c.Login(context.Background(), "alice@example.com", "nope")

	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.False(t, c.IsLoggedIn())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorResponse{Error: "email already registered"})
	})

	c, srv := newTestClient(mux)
	defer srv.Close()

	_, err := c.Register(context.Background(), "Alice", "alice@example.com", "pw", "Employee", nil)

	assert.ErrorIs(t, err, common.ErrorDuplicateEmail)
}

func TestApply_SendsBearerToken(t *testing.T) {
	var gotAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", loginHandler("a1", "r1"))
	mux.HandleFunc("POST /api/leaves", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(common.AuthorizationHeaderName)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(LeaveRequest{ID: 7, Status: "Waiting", LeaveType: "Personal", DateOfApplication: "2025-03-14"})
	})

	c, srv := newTestClient(mux)
	defer srv.Close()

	_, err := c.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)

	lr, err := c.Apply(context.Background(), "Personal", "trip")
	require.NoError(t, err)

	assert.Equal(t, "Bearer a1", gotAuth)
	assert.Equal(t, int64(7), lr.ID)
	assert.Equal(t, "Waiting", lr.Status)
}

func TestApply_NotLoggedIn(t *testing.T) {
	c, srv := newTestClient(http.NewServeMux())
	defer srv.Close()

	_, err := c.Apply(context.Background(), "Personal", "")

	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshOn401_RetriesOnce(t *testing.T) {
	myCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", loginHandler("stale", "r1"))
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "r1", body["refresh_token"])
		json.NewEncoder(w).Encode(tokenPairResponse{AccessToken: "fresh", RefreshToken: "r2"})
	})
	mux.HandleFunc("GET /api/leaves/my", func(w http.ResponseWriter, r *http.Request) {
		myCalls++
		if r.Header.Get(common.AuthorizationHeaderName) != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(errorResponse{Error: "invalid or expired token"})
			return
		}
		json.NewEncoder(w).Encode([]LeaveRequest{{ID: 1, Status: "Approved"}})
	})

	c, srv := newTestClient(mux)
	defer srv.Close()

	_, err := c.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)

	list, err := c.MyRequests(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, myCalls)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)

	access, refresh := c.tokens()
	assert.Equal(t, "fresh", access)
	assert.Equal(t, "r2", refresh)
}

func TestRefreshFailure_LogsOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", loginHandler("stale", "r1"))
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errorResponse{Error: "invalid or expired refresh token"})
	})
	mux.HandleFunc("GET /api/leaves/my", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errorResponse{Error: "invalid or expired token"})
	})

	c, srv := newTestClient(mux)
	defer srv.Close()

	_, err := c.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = c.MyRequests(context.Background())

	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.False(t, c.IsLoggedIn())
}

func TestDecide_Conflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", loginHandler("a1", "r1"))
	mux.HandleFunc("POST /api/leaves/7/decision", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorResponse{Error: "request already decided"})
	})

	c, srv := newTestClient(mux)
	defer srv.Close()

	_, err := c.Login(context.Background(), "bob@example.com", "pw")
	require.NoError(t, err)

	err = c.Decide(context.Background(), 7, true)

	assert.ErrorIs(t, err, common.ErrorInvalidTransition)
}

func TestManagers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/managers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Manager{{ID: 2, Name: "Bob"}})
	})

	c, srv := newTestClient(mux)
	defer srv.Close()

	list, err := c.Managers(context.Background())
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, "Bob", list[0].Name)
}

func TestLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", loginHandler("a1", "r1"))

	c, srv := newTestClient(mux)
	defer srv.Close()

	_, err := c.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)

	c.Logout()

	assert.False(t, c.IsLoggedIn())
	assert.Nil(t, c.CurrentUser())
}
