package handler

import (
	"errors"
	"net/http"
	"os"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/security"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/store"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
)

// BackupHandler lists and checks the artifacts written before deletions.
type BackupHandler struct {
	Archive *store.Archive
}

func NewBackupHandler(a *store.Archive) *BackupHandler {
	return &BackupHandler{Archive: a}
}

func (h *BackupHandler) List(c *gin.Context) {
	list, err := h.Archive.List()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao listar backups")
		return
	}
	util.Success(c, util.Response{"list": list, "total": len(list)})
}

// Get returns one artifact together with the result of its checksum check.
func (h *BackupHandler) Get(c *gin.Context) {
	b, err := h.Archive.ReadNamed(c.Param("name"))
	if errors.Is(err, os.ErrNotExist) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Backup não encontrado")
		return
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao ler backup")
		return
	}

	util.Success(c, util.Response{
		"backup": b,
		"valid":  security.VerifyBackup(b),
	})
}
