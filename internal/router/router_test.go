package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/auth"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/config"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/database"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/metrics"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/security"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/store"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const adminPassword = "Admin@2024!"

type testServer struct {
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
	}

	db, err := database.Open(config.DatabaseConfig{Path: filepath.Join(dir, "console.db")})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	m := metrics.New()
	kv := store.NewKV(db)
	creds, err := store.NewCredentialStore(kv, util.NewPasswordHasher(util.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1}))
	require.NoError(t, err)
	policy, err := security.New(store.NewSecurityConfigStore(kv), security.WithMetrics(m))
	require.NoError(t, err)

	archive := store.NewArchive(filepath.Join(dir, "backups"), "k")
	svc := auth.NewService(policy, creds, store.NewSessionSlot(kv), archive, auth.WithMetrics(m))
	_, err = svc.EnsureDefaultAdmin("admin@sociodash.com", adminPassword)
	require.NoError(t, err)

	return &testServer{engine: SetupRouter(cfg, Deps{
		Auth:    svc,
		Archive: archive,
		Metrics: m,
		Logger:  zap.NewNop(),
	})}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, w.Body.String())
	return d
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	d := data(t, s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": username, "password": password}, ""))
	token, _ := d["token"].(string)
	require.NotEmpty(t, token)
	return token
}

var sindicatoBody = gin.H{
	"nome":  "Sindicato dos Bancários",
	"cnpj":  "11.222.333/0001-81",
	"email": "contato@bancarios.org.br",
	"fone":  "(11) 3333-4444",
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.login(t, "admin", adminPassword)

	d := data(t, s.do(t, http.MethodGet, "/api/me", nil, token))
	user := d["user"].(map[string]any)
	assert.Equal(t, "admin", user["username"])
	assert.NotContains(t, user, "passwordHash")

	w = s.do(t, http.MethodGet, "/api/me", nil, token+"x")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// logout kills the session even though the envelope is still signed
	data(t, s.do(t, http.MethodPost, "/api/auth/logout", nil, token))
	w = s.do(t, http.MethodGet, "/api/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCookieToken(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSindicatoLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", adminPassword)

	d := data(t, s.do(t, http.MethodPost, "/api/sindicatos", sindicatoBody, admin))
	provisional := d["provisionalPassword"].(string)
	sindicato := d["sindicato"].(map[string]any)
	usuario := d["usuario"].(map[string]any)
	assert.Equal(t, "11.222.333/0001-81", sindicato["cnpj"])
	assert.Equal(t, true, usuario["mustChangePassword"])
	assert.NotContains(t, usuario, "provisionalPassword")

	w := s.do(t, http.MethodPost, "/api/sindicatos", gin.H{
		"nome": "Outro", "cnpj": "11222333000181", "email": "outro@bancarios.org.br",
	}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, float64(util.CodeConflict), decode(t, w)["code"])

	// provisional login gives no token
	username := usuario["username"].(string)
	d = data(t, s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": username, "password": provisional}, ""))
	assert.Equal(t, true, d["forceChangePassword"])
	assert.NotContains(t, d, "token")

	d = data(t, s.do(t, http.MethodPost, "/api/auth/first-access", gin.H{
		"username":            username,
		"provisionalPassword": provisional,
		"newPassword":         "Sindicato@2024",
		"confirmPassword":     "Sindicato@2024",
	}, ""))
	unionToken := d["token"].(string)

	// union administrators cannot manage the registry
	w = s.do(t, http.MethodGet, "/api/sindicatos", nil, unionToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	data(t, s.do(t, http.MethodGet, "/api/dashboard", nil, unionToken))

	d = data(t, s.do(t, http.MethodGet, "/api/sindicatos", nil, admin))
	assert.Equal(t, float64(1), d["total"])

	d = data(t, s.do(t, http.MethodDelete, "/api/sindicatos/"+sindicato["id"].(string), nil, admin))
	assert.Equal(t, float64(1), d["usuariosRemovidos"])

	w = s.do(t, http.MethodGet, "/api/me", nil, unionToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	d = data(t, s.do(t, http.MethodGet, "/api/backups", nil, admin))
	list := d["list"].([]any)
	require.Len(t, list, 1)
	name := list[0].(map[string]any)["name"].(string)

	d = data(t, s.do(t, http.MethodGet, "/api/backups/"+name, nil, admin))
	assert.Equal(t, true, d["valid"])

	w = s.do(t, http.MethodGet, "/api/backups/missing.json", nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/sindicatos/"+sindicato["id"].(string), nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", adminPassword)

	w := s.do(t, http.MethodPost, "/api/sindicatos", gin.H{"nome": "X", "cnpj": "123", "email": "a@b.com"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CNPJ inválido", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/api/me/password", gin.H{
		"currentPassword": adminPassword,
		"newPassword":     "fraca",
		"confirmPassword": "fraca",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Senha fraca", body["message"])
	assert.NotEmpty(t, body["details"])

	data(t, s.do(t, http.MethodPost, "/api/me/password", gin.H{
		"currentPassword": adminPassword,
		"newPassword":     "Nova@Senha2024",
		"confirmPassword": "Nova@Senha2024",
	}, admin))
}

func TestLockoutAndUnblock(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", adminPassword)

	d := data(t, s.do(t, http.MethodPost, "/api/sindicatos", sindicatoBody, admin))
	username := d["usuario"].(map[string]any)["username"].(string)

	var w *httptest.ResponseRecorder
	for i := 0; i < 5; i++ {
		w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": username, "password": "errada"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assert.Equal(t, true, decode(t, w)["locked"])

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": username, "password": "errada"}, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["locked"])
	assert.Equal(t, float64(15), body["remainingMinutes"])

	d = data(t, s.do(t, http.MethodGet, "/api/usuarios", nil, admin))
	blocked := 0
	for _, u := range d["usuarios"].([]any) {
		if u.(map[string]any)["blocked"] == true {
			blocked++
		}
	}
	assert.Equal(t, 1, blocked)

	d = data(t, s.do(t, http.MethodGet, "/api/security/attempts/"+username, nil, admin))
	assert.Equal(t, false, d["allowed"])

	data(t, s.do(t, http.MethodPost, "/api/usuarios/"+username+"/unblock", nil, admin))
	d = data(t, s.do(t, http.MethodGet, "/api/security/attempts/"+username, nil, admin))
	assert.Equal(t, true, d["allowed"])

	d = data(t, s.do(t, http.MethodGet, "/api/security/log?severity=error", nil, admin))
	assert.NotEmpty(t, d["list"])
}

func TestAttemptsIsReadOnly(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", adminPassword)
	const name = "o'neil"

	for i := 0; i < 5; i++ {
		s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": name, "password": "errada"}, "")
	}

	logSize := func() int {
		d := data(t, s.do(t, http.MethodGet, "/api/security/log?limit=100", nil, admin))
		return len(d["list"].([]any))
	}
	before := logSize()

	for i := 0; i < 3; i++ {
		d := data(t, s.do(t, http.MethodGet, "/api/security/attempts/"+name, nil, admin))
		assert.Equal(t, false, d["allowed"])
		assert.Equal(t, float64(15), d["remainingMinutes"])
		assert.Equal(t, float64(5), d["attempts"])
	}
	assert.Equal(t, before, logSize())

	data(t, s.do(t, http.MethodPost, "/api/usuarios/"+name+"/unblock", nil, admin))
	d := data(t, s.do(t, http.MethodGet, "/api/security/attempts/"+name, nil, admin))
	assert.Equal(t, true, d["allowed"])
	assert.Equal(t, float64(0), d["attempts"])

	w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": name, "password": "errada"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSecurityConfig(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", adminPassword)

	d := data(t, s.do(t, http.MethodGet, "/api/security/config", nil, admin))
	assert.Equal(t, float64(5), d["config"].(map[string]any)["maxAttempts"])

	d = data(t, s.do(t, http.MethodPut, "/api/security/config", gin.H{"maxAttempts": 3}, admin))
	cfg := d["config"].(map[string]any)
	assert.Equal(t, float64(3), cfg["maxAttempts"])
	assert.Equal(t, float64(15), cfg["lockoutTime"])

	w := s.do(t, http.MethodPut, "/api/security/config", gin.H{"maxAttempts": 0}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	d = data(t, s.do(t, http.MethodPost, "/api/security/password-strength", gin.H{"password": "abc"}, ""))
	assert.Equal(t, false, d["valid"])
	assert.Equal(t, "weak", d["strength"])
}

func TestExports(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", adminPassword)
	data(t, s.do(t, http.MethodPost, "/api/sindicatos", sindicatoBody, admin))

	w := s.do(t, http.MethodGet, "/api/sindicatos/export/csv", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Body.String(), "11.222.333/0001-81")

	// downloads may pass the token as a query parameter
	w = s.do(t, http.MethodGet, "/api/sindicatos/export/xlsx?token="+admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sindicatos")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Nome", rows[0][0])
	assert.Equal(t, "Sindicato dos Bancários", rows[1][0])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin", adminPassword)

	w := s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`sociodash_login_attempts_total{result="%s"} 1`, metrics.LoginSuccess))
}
