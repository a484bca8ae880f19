package handler

import (
	"net/http"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/auth"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
)

// userView is what the console shows of an account. Hashes never leave.
func userView(u models.User) gin.H {
	return gin.H{
		"id":                 u.ID,
		"username":           u.Username,
		"email":              u.Email,
		"role":               u.Role,
		"status":             u.Status,
		"sindicatoId":        u.SindicatoID,
		"createdAt":          u.CreatedAt,
		"lastLogin":          u.LastLogin,
		"loginAttempts":      u.LoginAttempts,
		"mustChangePassword": u.HasProvisionalPassword() && !u.HasPassword(),
	}
}

type UserHandler struct {
	Auth *auth.Service
}

func NewUserHandler(svc *auth.Service) *UserHandler {
	return &UserHandler{Auth: svc}
}

// List returns every account with its lock state.
func (h *UserHandler) List(c *gin.Context) {
	statuses := h.Auth.GetUsuariosComStatus()

	items := make([]gin.H, 0, len(statuses))
	for _, st := range statuses {
		v := userView(st.User)
		v["blocked"] = st.Lock.Locked
		if st.Lock.Locked {
			v["blockedUntil"] = st.Lock.Until
		}
		items = append(items, v)
	}
	util.Success(c, util.Response{"usuarios": items, "total": len(items)})
}

func (h *UserHandler) Unblock(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}
	if err := h.Auth.DesbloquearUsuario(username); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "Usuário desbloqueado"})
}
