package router

import (
	"net/http"
	"time"

	"github.com/LukaszHolowacz/Marketplace/internal/config"
	"github.com/LukaszHolowacz/Marketplace/internal/handler"
	"github.com/LukaszHolowacz/Marketplace/internal/lockout"
	"github.com/LukaszHolowacz/Marketplace/internal/middleware"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires every endpoint.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// wrong method on a known path must be 405, not 404
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		util.Error(c, http.StatusMethodNotAllowed, util.CodeMethod, "Metoda nie jest dozwolona.")
	})
	r.NoRoute(func(c *gin.Context) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Nie znaleziono zasobu.")
	})

	// uploaded ad images and avatars
	r.Static("/media", cfg.App.UploadDir)

	jwtSecret := cfg.JWT.Secret
	pageSize := cfg.App.PageSize

	tracker := lockout.New(cfg.Lockout.MaxFailures, time.Duration(cfg.Lockout.CooldownMinutes)*time.Minute)

	authHandler := handler.NewAuthHandler(db, tracker, cfg.JWT)
	userHandler := handler.NewUserHandler(db, cfg.Security.BcryptCost)
	categoryHandler := handler.NewCategoryHandler(db)
	adHandler := handler.NewAdHandler(db, cfg.App.UploadDir, cfg.App.MinPrice, pageSize)
	messageHandler := handler.NewMessageHandler(db, pageSize)
	favoriteHandler := handler.NewFavoriteHandler(db, pageSize)
	exportHandler := handler.NewExportHandler(db)
	logHandler := handler.NewLogHandler(db, pageSize)

	api := r.Group("/api")

	// ====== open endpoints ======
	api.POST("/token", authHandler.Login)
	api.POST("/token/refresh", authHandler.Refresh)
	api.POST("/users/register", userHandler.Register)

	// public profile adapts to who is asking, so the token is optional
	api.GET("/users/:user/profile",
		middleware.OptionalAuthMiddleware(jwtSecret, db),
		handler.PublicProfile(db))

	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/:id", categoryHandler.Get)

	api.GET("/ads", adHandler.List)
	api.GET("/ads/:id", adHandler.Get)
	api.GET("/ads/category/:category_id", adHandler.ByCategory)
	api.GET("/ads/user/:user_id", adHandler.ByUser)

	// ====== protected endpoints ======
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/users/me", userHandler.GetMe)
	protected.PUT("/users/me/profile", handler.UpdateProfile(db, cfg.App.UploadDir))
	protected.PATCH("/users/me/profile", handler.UpdateProfile(db, cfg.App.UploadDir))
	protected.PUT("/users/me/change-password", handler.ChangePassword(db, cfg.Security.BcryptCost))
	protected.DELETE("/users/:user/delete", handler.DeleteUser(db))

	protected.POST("/categories", categoryHandler.Create)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	protected.POST("/ads", adHandler.Create)
	protected.PUT("/ads/:id", adHandler.Update)
	protected.PATCH("/ads/:id", adHandler.Update)
	protected.DELETE("/ads/:id", adHandler.Delete)
	protected.PATCH("/ads/:id/toggle-active", adHandler.ToggleActive)
	protected.GET("/ads/export/csv", exportHandler.ExportCSV)
	protected.GET("/ads/export/xlsx", exportHandler.ExportXLSX)

	protected.GET("/messages", messageHandler.List)
	protected.POST("/messages/by-ad/:ad_id", messageHandler.CreateByAd)
	protected.GET("/messages/:id", messageHandler.Get)
	protected.DELETE("/messages/:id", messageHandler.Delete)
	protected.PATCH("/messages/:id/read", messageHandler.MarkRead)
	protected.GET("/messages/by-ad/:ad_id/user/:user_id", messageHandler.ByAdAndUser)

	protected.GET("/favorites", favoriteHandler.List)
	protected.POST("/favorites", favoriteHandler.Create)
	protected.GET("/favorites/:id", favoriteHandler.Get)
	protected.DELETE("/favorites/:id", favoriteHandler.Delete)
	protected.DELETE("/favorites/by-ad/:ad_id", favoriteHandler.DeleteByAd)
	protected.GET("/favorites/check/:ad_id", favoriteHandler.Check)

	protected.GET("/audit/logs", logHandler.ListLogs)

	return r
}
