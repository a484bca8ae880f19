package handler

import (
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/auth"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Auth *auth.Service
}

func NewDashboardHandler(svc *auth.Service) *DashboardHandler {
	return &DashboardHandler{Auth: svc}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	util.Success(c, util.Response{"stats": h.Auth.Stats()})
}
