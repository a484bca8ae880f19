package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/apperror"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type fakeSessions map[string]models.User

func (f fakeSessions) UserForToken(token string) (models.User, error) {
	u, ok := f[token]
	if !ok {
		return models.User{}, apperror.Authorization("Token inválido")
	}
	return u, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(sessions SessionResolver) *gin.Engine {
	r := gin.New()
	protected := r.Group("", AuthMiddleware(secret, sessions))
	protected.GET("/me", func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.String(http.StatusOK, u.Username+":"+SessionToken(c))
	})
	protected.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func serve(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	sessions := fakeSessions{
		"sid-admin": {Username: "admin", Role: models.RoleAdministrator},
		"sid-union": {Username: "sind_1", Role: models.RoleUnionAdministrator},
	}
	r := newEngine(sessions)

	adminTok, err := util.GenerateToken(secret, "sid-admin", "admin", time.Hour)
	require.NoError(t, err)
	unionTok, err := util.GenerateToken(secret, "sid-union", "sind_1", time.Hour)
	require.NoError(t, err)

	w := serve(r, "/me", adminTok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin:sid-admin", w.Body.String())

	assert.Equal(t, http.StatusOK, serve(r, "/admin", adminTok).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/admin", unionTok).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/me", "").Code)

	// signed by someone else
	forged, err := util.GenerateToken("other", "sid-admin", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/me", forged).Code)

	// envelope fine, session gone
	gone, err := util.GenerateToken(secret, "sid-gone", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/me", gone).Code)

	// envelope subject must match the session owner
	swapped, err := util.GenerateToken(secret, "sid-union", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/me", swapped).Code)
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, "abc"},
		{"bearer case", func(r *http.Request) { r.Header.Set("Authorization", "bearer abc") }, "abc"},
		{"query", func(r *http.Request) { r.URL.RawQuery = "token=q1" }, "q1"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "c1"}) }, "c1"},
		{"basic ignored", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, ""},
		{"none", func(*http.Request) {}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = req
			assert.Equal(t, tt.want, TokenFromRequest(c))
		})
	}
}
