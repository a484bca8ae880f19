package router

import (
	"net/http"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/auth"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/config"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/handler"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/metrics"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/middleware"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the console routes call into.
type Deps struct {
	Auth    *auth.Service
	Archive *store.Archive
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// SetupRouter configures the Gin engine and the JSON API.
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(deps.Logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	policy := deps.Auth.Policy()

	authHandler := handler.NewAuthHandler(deps.Auth, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	securityHandler := handler.NewSecurityHandler(policy)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/first-access", authHandler.FirstAccess)
	api.POST("/security/password-strength", securityHandler.PasswordStrength)

	// signed in
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, deps.Auth))

	profileHandler := handler.NewProfileHandler(deps.Auth)
	dashboardHandler := handler.NewDashboardHandler(deps.Auth)
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", profileHandler.GetMe)
	protected.POST("/me/password", profileHandler.ChangePassword)
	protected.GET("/dashboard", dashboardHandler.Stats)

	// administrators only
	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())

	sindicatoHandler := handler.NewSindicatoHandler(deps.Auth)
	admin.GET("/sindicatos", sindicatoHandler.List)
	admin.POST("/sindicatos", sindicatoHandler.Create)
	admin.DELETE("/sindicatos/:id", sindicatoHandler.Delete)

	exportHandler := handler.NewExportHandler(deps.Auth)
	admin.GET("/sindicatos/export/csv", exportHandler.ExportCSV)
	admin.GET("/sindicatos/export/xlsx", exportHandler.ExportXLSX)

	userHandler := handler.NewUserHandler(deps.Auth)
	admin.GET("/usuarios", userHandler.List)
	admin.POST("/usuarios/:username/unblock", userHandler.Unblock)

	logHandler := handler.NewLogHandler(policy)
	admin.GET("/security/config", securityHandler.GetConfig)
	admin.PUT("/security/config", securityHandler.SaveConfig)
	admin.GET("/security/log", logHandler.ListSecurityLog)
	admin.GET("/security/attempts/:username", securityHandler.Attempts)

	if deps.Archive != nil {
		backupHandler := handler.NewBackupHandler(deps.Archive)
		admin.GET("/backups", backupHandler.List)
		admin.GET("/backups/:name", backupHandler.Get)
	}

	return r
}
