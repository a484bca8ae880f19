package handler

import (
	"fmt"
	"net/http"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/security"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
)

// SecurityHandler exposes the policy to the console.
type SecurityHandler struct {
	Policy *security.Policy
}

func NewSecurityHandler(p *security.Policy) *SecurityHandler {
	return &SecurityHandler{Policy: p}
}

func (h *SecurityHandler) GetConfig(c *gin.Context) {
	util.Success(c, util.Response{"config": h.Policy.SecurityConfig()})
}

// SaveConfig applies a full or partial policy; absent fields keep their
// current value.
func (h *SecurityHandler) SaveConfig(c *gin.Context) {
	cfg := h.Policy.SecurityConfig()
	if err := c.ShouldBindJSON(&cfg); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}
	if err := h.Policy.SaveSecurityConfig(cfg); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"config": h.Policy.SecurityConfig()})
}

type strengthReq struct {
	Password string `json:"password"`
}

// PasswordStrength lets the forms grade a password before submitting it.
func (h *SecurityHandler) PasswordStrength(c *gin.Context) {
	var req strengthReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}
	res := h.Policy.ValidatePasswordStrength(req.Password)
	util.Success(c, util.Response{
		"valid":    res.Valid,
		"errors":   res.Errors,
		"strength": res.Strength,
	})
}

// Attempts reports the lock state of a username. It is read-only: nothing is
// logged and elapsed records are left for the next login to clear.
func (h *SecurityHandler) Attempts(c *gin.Context) {
	st := h.Policy.LockStatus(h.Policy.AccountKey(c.Param("username")))
	res := util.Response{
		"allowed":          !st.Locked,
		"remainingMinutes": st.RemainingMinutes,
		"attempts":         st.Attempts,
	}
	if st.Locked {
		res["message"] = fmt.Sprintf("Usuário bloqueado. Tente novamente em %d minutos.", st.RemainingMinutes)
		res["until"] = st.Until
	}
	util.Success(c, res)
}
