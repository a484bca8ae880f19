package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFail_StatusByKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
	}{
		{apperror.Validation("x"), http.StatusBadRequest},
		{apperror.NotFound("x"), http.StatusNotFound},
		{apperror.Conflict("x"), http.StatusConflict},
		{apperror.Authorization("x"), http.StatusUnauthorized},
		{apperror.RateLimit("x"), http.StatusTooManyRequests},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Fail(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
	}
}

func TestFail_CarriesFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, apperror.RateLimit("Conta bloqueada").With("locked", true).With("remainingMinutes", 7))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Conta bloqueada", body["message"])
	assert.Equal(t, true, body["locked"])
	assert.Equal(t, float64(7), body["remainingMinutes"])
	assert.Equal(t, float64(CodeLocked), body["code"])
}

func TestFail_HidesInternalMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, errors.New("sqlite: disk I/O error"))
	assert.NotContains(t, w.Body.String(), "sqlite")
}
