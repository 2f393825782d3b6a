package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func newTestHandler(t *testing.T) (http.Handler, *Role) {
	t.Helper()
	var seen Role
	policy := NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	mw := NewMiddleware(testSecret, policy, nil)
	return mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})), &seen
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthMiddleware_ExemptPath(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAuthMiddleware_ViewerReadsPresets(t *testing.T) {
	handler, seen := newTestHandler(t)
	token := mustToken(t, testSecret, "viewer", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, RoleViewer, *seen)
}

func TestAuthMiddleware_ViewerForbiddenAssessment(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := mustToken(t, testSecret, "viewer", time.Hour)

	for _, path := range []string{"/api/v1/assessments", "/api/v1/assessments/export.pdf", "/api/v1/scenarios/compare"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusForbidden, resp.Code, path)
	}
}

func TestAuthMiddleware_AnalystAssesses(t *testing.T) {
	handler, seen := newTestHandler(t)
	token := mustToken(t, testSecret, "analyst", time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, RoleAnalyst, *seen)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := mustToken(t, testSecret, "admin", -time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestParseJWT(t *testing.T) {
	_, err := ParseJWT("", testSecret)
	assert.ErrorIs(t, err, ErrEmptyToken)

	_, err = ParseJWT("abc", nil)
	assert.ErrorIs(t, err, ErrEmptySecret)

	token := mustToken(t, testSecret, "operator", time.Hour)
	_, err = ParseJWT(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidRole)

	token = mustToken(t, []byte("other"), "viewer", time.Hour)
	_, err = ParseJWT(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueJWTRoundTrip(t *testing.T) {
	token, err := IssueJWT(testSecret, "planner-7", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "planner-7", claims.Subject)
	assert.Equal(t, "admin", claims.Role)

	_, err = IssueJWT(testSecret, "x", Role("root"), time.Hour)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAtLeast(RoleAdmin, RoleAnalyst))
	assert.True(t, RoleAtLeast(RoleAnalyst, RoleAnalyst))
	assert.False(t, RoleAtLeast(RoleViewer, RoleAnalyst))
	assert.False(t, RoleAtLeast(Role(""), RoleViewer))
}

func TestRoleRanksCoverEndpoints(t *testing.T) {
	policy := NewDefaultPolicy([]string{"/healthz"}, []string{"/metrics"})
	cases := []struct {
		method  string
		path    string
		allowed []Role
		denied  []Role
	}{
		{http.MethodGet, "/api/v1/presets", []Role{RoleViewer, RoleAnalyst, RoleAdmin}, nil},
		{http.MethodPost, "/api/v1/assessments", []Role{RoleAnalyst, RoleAdmin}, []Role{RoleViewer}},
		{http.MethodPost, "/api/v1/assessments/export.pdf", []Role{RoleAnalyst, RoleAdmin}, []Role{RoleViewer}},
		{http.MethodPost, "/api/v1/scenarios/compare", []Role{RoleAnalyst, RoleAdmin}, []Role{RoleViewer}},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		required, ok := policy.RequiredRole(req)
		require.True(t, ok, tc.path)
		for _, role := range tc.allowed {
			assert.True(t, RoleAtLeast(role, required), "%s %s as %s", tc.method, tc.path, role)
		}
		for _, role := range tc.denied {
			assert.False(t, RoleAtLeast(role, required), "%s %s as %s", tc.method, tc.path, role)
		}
	}
}

func mustToken(t *testing.T, secret []byte, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
