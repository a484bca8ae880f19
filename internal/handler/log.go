package handler

import (
	"strconv"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/security"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
)

// LogHandler serves the in-memory security log.
type LogHandler struct {
	Policy *security.Policy
}

func NewLogHandler(p *security.Policy) *LogHandler {
	return &LogHandler{Policy: p}
}

// ListSecurityLog returns entries newest first.
// Query: severity=success|warning|error|info, limit=1..100 (default 20).
func (h *LogHandler) ListSecurityLog(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	severity := models.Severity(c.Query("severity"))

	entries := h.Policy.GetSecurityLog()
	items := make([]models.SecurityLogEntry, 0, limit)
	for _, e := range entries {
		if severity != "" && e.Severity != severity {
			continue
		}
		items = append(items, e)
		if len(items) == limit {
			break
		}
	}

	util.Success(c, util.Response{
		"list":  items,
		"total": len(entries),
	})
}
