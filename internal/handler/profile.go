package handler

import (
	"net/http"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/auth"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/middleware"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the signed-in account.
type ProfileHandler struct {
	Auth *auth.Service
}

func NewProfileHandler(svc *auth.Service) *ProfileHandler {
	return &ProfileHandler{Auth: svc}
}

// GetMe returns the signed-in account. Requires AuthMiddleware.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}
	util.Success(c, util.Response{"user": userView(*user)})
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}

	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}

	if err := h.Auth.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "Senha alterada com sucesso"})
}
