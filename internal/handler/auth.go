package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/auth"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/middleware"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, first access and logout.
type AuthHandler struct {
	Auth      *auth.Service
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(svc *auth.Service, jwtSecret string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 12
	}
	return &AuthHandler{
		Auth:      svc,
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}

	res, err := h.Auth.Login(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}

	// provisional credentials: no session until first access completes
	if res.ForceChangePassword {
		util.Success(c, util.Response{
			"forceChangePassword": true,
			"user":                userView(res.User),
		})
		return
	}

	h.issue(c, res)
}

type firstAccessReq struct {
	Username            string `json:"username" binding:"required"`
	ProvisionalPassword string `json:"provisionalPassword" binding:"required"`
	NewPassword         string `json:"newPassword" binding:"required"`
	ConfirmPassword     string `json:"confirmPassword" binding:"required"`
}

// FirstAccess swaps a provisional password for a permanent one and logs in.
func (h *AuthHandler) FirstAccess(c *gin.Context) {
	var req firstAccessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}

	res, err := h.Auth.CompleteFirstAccess(strings.TrimSpace(req.Username), req.ProvisionalPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		util.Fail(c, err)
		return
	}
	h.issue(c, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.RevokeSession(middleware.SessionToken(c)); err != nil {
		util.Fail(c, err)
		return
	}
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	util.Success(c, util.Response{"message": "Sessão encerrada"})
}

// issue wraps the session token in a signed envelope and returns it both in
// the body and as an HttpOnly cookie.
func (h *AuthHandler) issue(c *gin.Context, res auth.LoginResult) {
	token, err := util.GenerateToken(h.JWTSecret, res.SessionToken, res.User.Username, h.TokenTTL)
	if err != nil {
		_ = h.Auth.RevokeSession(res.SessionToken)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao gerar token")
		return
	}

	c.SetCookie(middleware.TokenCookie, token, int(h.TokenTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	util.Success(c, util.Response{
		"token":               token,
		"forceChangePassword": false,
		"user":                userView(res.User),
	})
}
