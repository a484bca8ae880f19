package middleware

import (
	"net/http"
	"strings"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
)

// Context keys and the cookie carrying the signed session envelope.
const (
	CtxUser     = "currentUser"
	CtxSession  = "sessionToken"
	TokenCookie = "sd_token"
)

// SessionResolver maps a live session token to its account.
type SessionResolver interface {
	UserForToken(token string) (models.User, error)
}

// AuthMiddleware verifies the JWT envelope, then asks the session table
// whether the token inside is still alive. The user is loaded fresh on every
// request.
func AuthMiddleware(jwtSecret string, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := TokenFromRequest(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Sessão expirada, faça login novamente")
			c.Abort()
			return
		}

		user, err := sessions.UserForToken(claims.SessionID)
		if err != nil {
			util.Fail(c, err)
			c.Abort()
			return
		}
		if claims.Subject != user.Username {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Sessão inválida")
			c.Abort()
			return
		}

		c.Set(CtxUser, &user)
		c.Set(CtxSession, claims.SessionID)
		c.Next()
	}
}

// TokenFromRequest looks at the Authorization header, then ?token= (for
// downloads), then the cookie.
func TokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if t := c.Query("token"); t != "" {
		return t
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != models.RoleAdministrator {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "Acesso restrito a administradores")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the account set by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// SessionToken returns the opaque token set by AuthMiddleware.
func SessionToken(c *gin.Context) string {
	return c.GetString(CtxSession)
}
