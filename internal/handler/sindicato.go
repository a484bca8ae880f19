package handler

import (
	"net/http"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/auth"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
)

type SindicatoHandler struct {
	Auth *auth.Service
}

func NewSindicatoHandler(svc *auth.Service) *SindicatoHandler {
	return &SindicatoHandler{Auth: svc}
}

func sindicatoView(s models.Sindicato) gin.H {
	return gin.H{
		"id":          s.ID,
		"nome":        s.Nome,
		"cnpj":        util.FormatCNPJ(s.CNPJ),
		"email":       s.Email,
		"fone":        s.Fone,
		"status":      s.Status,
		"createdAt":   s.CreatedAt,
		"adminUserId": s.AdminUserID,
	}
}

func (h *SindicatoHandler) List(c *gin.Context) {
	list := h.Auth.GetSindicatos()
	items := make([]gin.H, 0, len(list))
	for _, s := range list {
		items = append(items, sindicatoView(s))
	}
	util.Success(c, util.Response{"sindicatos": items, "total": len(items)})
}

type createSindicatoReq struct {
	Nome  string `json:"nome" binding:"required,max=200"`
	CNPJ  string `json:"cnpj" binding:"required"`
	Email string `json:"email" binding:"required"`
	Fone  string `json:"fone" binding:"max=40"`
}

// Create registers the sindicato. The provisional password is in this
// response and nowhere else.
func (h *SindicatoHandler) Create(c *gin.Context) {
	var req createSindicatoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}

	res, err := h.Auth.CadastrarSindicato(models.SindicatoInput{
		Nome:  req.Nome,
		CNPJ:  req.CNPJ,
		Email: req.Email,
		Fone:  req.Fone,
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{
		"sindicato":           sindicatoView(res.Sindicato),
		"usuario":             userView(res.Usuario),
		"provisionalPassword": res.ProvisionalPassword,
	})
}

func (h *SindicatoHandler) Delete(c *gin.Context) {
	res, err := h.Auth.DeletarSindicato(c.Param("id"))
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{
		"message":           "Sindicato excluído com sucesso",
		"usuariosRemovidos": res.RemovedUsers,
		"backupPath":        res.BackupPath,
		"backup": gin.H{
			"timestamp": res.Backup.Timestamp,
			"hash":      res.Backup.Hash,
		},
	})
}
