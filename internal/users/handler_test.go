package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"essay-backend/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, signer := newTestService(t)
	h := NewHandler(svc)

	r := gin.New()
	h.RegisterPublicRoutes(r.Group(""))
	h.RegisterRoutes(r.Group("/api/v1", middleware.Auth(signer)))
	return r
}

func do(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSignupLoginMe(t *testing.T) {
	r := newTestRouter(t)

	rr := do(r, http.MethodPost, "/signup", `{"username":"ada","email":"ada@example.com","password":"secret1"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "password") || strings.Contains(rr.Body.String(), "$2a$") {
		t.Fatalf("signup response leaks password data: %s", rr.Body.String())
	}
	var signup struct {
		User User `json:"user"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &signup); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	if signup.User.Username != "ada" || signup.User.Verified {
		t.Fatalf("unexpected user %+v", signup.User)
	}

	rr = do(r, http.MethodPost, "/login", `{"username":"ada","password":"secret1"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rr.Code)
	}
	var login map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login["token"] == "" {
		t.Fatalf("expected token")
	}

	rr = do(r, http.MethodGet, "/api/v1/me", "", map[string]string{"Authorization": "Bearer " + login["token"]})
	if rr.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rr.Code)
	}
	var me meResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.ID != signup.User.ID || me.Email != "ada@example.com" {
		t.Fatalf("unexpected me %+v", me)
	}
}

func TestLoginFailuresReturnSame401(t *testing.T) {
	r := newTestRouter(t)
	if rr := do(r, http.MethodPost, "/signup", `{"username":"ada","email":"ada@example.com","password":"secret1"}`, nil); rr.Code != http.StatusOK {
		t.Fatalf("signup: %d", rr.Code)
	}

	unknown := do(r, http.MethodPost, "/login", `{"username":"nobody","password":"secret1"}`, nil)
	wrong := do(r, http.MethodPost, "/login", `{"username":"ada","password":"nope123"}`, nil)

	for _, rr := range []*httptest.ResponseRecorder{unknown, wrong} {
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("bodies differ: %s vs %s", unknown.Body.String(), wrong.Body.String())
	}
	if unknown.Body.String() != `{"message":"Invalid username or password"}` {
		t.Fatalf("unexpected body %s", unknown.Body.String())
	}
}

func TestSignupValidationAndConflict(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "missing email", body: `{"username":"ada","password":"secret1"}`, want: http.StatusBadRequest},
		{name: "bad email", body: `{"username":"ada","email":"nope","password":"secret1"}`, want: http.StatusBadRequest},
		{name: "short password", body: `{"username":"ada","email":"a@example.com","password":"123"}`, want: http.StatusBadRequest},
		{name: "ok", body: `{"username":"ada","email":"a@example.com","password":"secret1"}`, want: http.StatusOK},
		{name: "duplicate", body: `{"username":"ada","email":"b@example.com","password":"secret2"}`, want: http.StatusConflict},
	}
	for _, tt := range tests {
		rr := do(r, http.MethodPost, "/signup", tt.body, nil)
		if rr.Code != tt.want {
			t.Fatalf("%s: expected %d, got %d: %s", tt.name, tt.want, rr.Code, rr.Body.String())
		}
	}
}

func TestMeRequiresToken(t *testing.T) {
	r := newTestRouter(t)
	if rr := do(r, http.MethodGet, "/api/v1/me", "", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
