package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mehedi/streambox/internal/models"
)

func testAdmin() *models.Admin {
	return &models.Admin{ID: "a1", Email: "admin@example.com"}
}

func TestRequireAdminPlacesClaimsOnContext(t *testing.T) {
	a := New(nil, "test-secret")
	token, err := a.generateToken(testAdmin())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var got *Claims
	handler := a.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = AdminFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.AdminID != "a1" || got.Email != "admin@example.com" {
		t.Fatalf("claims from context = %+v", got)
	}
}

func TestRequireAdminRejectsMissingAndBadTokens(t *testing.T) {
	a := New(nil, "test-secret")
	handler := a.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid token")
	}))

	for _, tc := range []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s token: status = %d, want 401", tc.name, rec.Code)
		}
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	a := &Auth{secret: []byte("test-secret"), expiresIn: -time.Minute}
	token, err := a.generateToken(testAdmin())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := a.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := New(nil, "secret-a").generateToken(testAdmin())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := New(nil, "secret-b").ValidateToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestAdminFromContextWithoutClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := AdminFromContext(req.Context()); got != nil {
		t.Fatalf("expected nil claims, got %+v", got)
	}
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")) != nil {
		t.Fatal("hash does not match original password")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")) == nil {
		t.Fatal("hash matched the wrong password")
	}
}
