package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionIssueAndVerify(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	token, err := m.Issue(time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := m.Verify(token); err != nil {
		t.Errorf("Verify rejected a fresh token: %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	token, err := m.Issue(time.Now().Add(-2 * time.Hour))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := m.Verify(token); err == nil {
		t.Error("Verify accepted an expired token")
	}
}

func TestSessionWrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret-a", time.Hour).Issue(time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := NewSessionManager("secret-b", time.Hour).Verify(token); err == nil {
		t.Error("Verify accepted a token signed with a different secret")
	}
}

func TestSessionGarbageToken(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	if err := m.Verify("not.a.jwt"); err == nil {
		t.Error("Verify accepted garbage")
	}
}

func TestRequireAuthRedirectsWithoutCookie(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect to %q, want /login", loc)
	}
}

func TestRequireAuthPassesWithValidCookie(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	token, err := m.Issue(time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	called := false
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("valid session did not reach the protected handler")
	}
}

func TestPasswordsMatchConstantTime(t *testing.T) {
	if !passwordsMatch("hunter2", "hunter2") {
		t.Error("identical passwords did not match")
	}
	if passwordsMatch("hunter2", "hunter3") {
		t.Error("different passwords matched")
	}
	if passwordsMatch("", "hunter2") {
		t.Error("empty password matched")
	}
}
