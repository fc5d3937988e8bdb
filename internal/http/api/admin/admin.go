// Package admin registers the administrator API routes.
package admin

import (
	"github.com/communityhub-io/communityhub/internal/credentials"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/http/api/admin/handlers"
	"github.com/communityhub-io/communityhub/internal/lifecycle"
	"github.com/communityhub-io/communityhub/internal/notify"
	"github.com/communityhub-io/communityhub/internal/roles"
	"github.com/communityhub-io/communityhub/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterAdminRoutes registers public and authenticated admin routes
// under /api/admin.
func RegisterAdminRoutes(r *gin.Engine, db *gorm.DB, workflow credentials.Workflow, gate lifecycle.Gate, store storage.ObjectStore, notifier notify.Notifier) {
	if r == nil || db == nil {
		return
	}

	group := r.Group("/api/admin")

	authHandler := handlers.NewAuthHandler(workflow)
	group.POST("/auth/login", authHandler.Login)
	group.POST("/auth/login/prepare", authHandler.LoginPrepare)
	group.POST("/auth/forgot-password", authHandler.ForgotPassword)
	group.POST("/auth/reset-password", authHandler.ResetPassword)

	authed := group.Group("")
	authed.Use(webhttp.AuthMiddleware(db, workflow.Tokens.Secret), webhttp.RequireAdmin())

	authed.GET("/auth/check-status", authHandler.CheckStatus)
	authed.PUT("/auth/change-password", authHandler.ChangePassword)

	mfaHandler := handlers.NewMFAHandler(db)
	authed.GET("/mfa/status", mfaHandler.Status)
	authed.POST("/mfa/totp/prepare", mfaHandler.PrepareTOTP)
	authed.POST("/mfa/totp/confirm", mfaHandler.ConfirmTOTP)
	authed.POST("/mfa/totp/disable", mfaHandler.DisableTOTP)

	settingsHandler := handlers.NewSettingsHandler(db)
	siteSettings := authed.Group("/settings", webhttp.RequireCapability(roles.CapManageAdmins))
	siteSettings.GET("", settingsHandler.Get)
	siteSettings.PUT("", settingsHandler.Update)

	adminHandler := handlers.NewAdminHandler(db, gate, notifier)
	admins := authed.Group("/admins", webhttp.RequireCapability(roles.CapManageAdmins))
	admins.POST("", adminHandler.Create)
	admins.GET("", adminHandler.List)
	admins.GET("/:id", adminHandler.Get)
	admins.PUT("/:id", adminHandler.Update)
	admins.PATCH("/:id/email", adminHandler.ChangeEmail)
	admins.PATCH("/:id/phone", adminHandler.ChangePhone)
	admins.PATCH("/:id/status", adminHandler.ChangeStatus)
	admins.POST("/:id/send-credentials", adminHandler.SendCredentials)
	admins.DELETE("/:id", adminHandler.Delete)
	admins.POST("/:id/restore", webhttp.RequireCapability(roles.CapRestore), adminHandler.Restore)
	admins.DELETE("/:id/permanent", webhttp.RequireCapability(roles.CapViewDeleted), adminHandler.PermanentDelete)
	admins.DELETE("", webhttp.RequireCapability(roles.CapViewDeleted), adminHandler.DeleteAll)

	categoryHandler := handlers.NewCategoryHandler(db, gate, store)
	categories := authed.Group("/categories", webhttp.RequireCapability(roles.CapManageContent))
	categories.POST("", categoryHandler.Create)
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)
	categories.PUT("/:id", categoryHandler.Update)
	categories.PATCH("/:id/status", categoryHandler.ChangeStatus)
	categories.PATCH("/:id/visibility", categoryHandler.ChangeVisibility)
	categories.DELETE("/:id/image", categoryHandler.RemoveImage)
	categories.DELETE("/:id", categoryHandler.Delete)
	categories.POST("/:id/restore", webhttp.RequireCapability(roles.CapRestore), categoryHandler.Restore)
	categories.DELETE("/:id/permanent", webhttp.RequireCapability(roles.CapViewDeleted), categoryHandler.PermanentDelete)
	categories.DELETE("", webhttp.RequireCapability(roles.CapViewDeleted), categoryHandler.DeleteAll)

	accountHandler := handlers.NewAccountHandler(db, gate)
	business := authed.Group("/business-accounts")
	business.GET("", accountHandler.ListBusiness)
	business.GET("/:id", accountHandler.GetBusiness)
	business.PATCH("/:id/status", accountHandler.ChangeBusinessStatus)
	business.DELETE("/:id", accountHandler.DeleteBusiness)
	business.POST("/:id/restore", webhttp.RequireCapability(roles.CapRestore), accountHandler.RestoreBusiness)
	business.DELETE("/:id/permanent", webhttp.RequireCapability(roles.CapViewDeleted), accountHandler.PermanentDeleteBusiness)
	business.DELETE("", webhttp.RequireCapability(roles.CapViewDeleted), accountHandler.DeleteAllBusiness)

	personal := authed.Group("/personal-accounts")
	personal.GET("", accountHandler.ListPersonal)
	personal.GET("/:id", accountHandler.GetPersonal)
	personal.PATCH("/:id/status", accountHandler.ChangePersonalStatus)
	personal.DELETE("/:id", accountHandler.DeletePersonal)
	personal.POST("/:id/restore", webhttp.RequireCapability(roles.CapRestore), accountHandler.RestorePersonal)
	personal.DELETE("/:id/permanent", webhttp.RequireCapability(roles.CapViewDeleted), accountHandler.PermanentDeletePersonal)
	personal.DELETE("", webhttp.RequireCapability(roles.CapViewDeleted), accountHandler.DeleteAllPersonal)

	jobHandler := handlers.NewJobHandler(db, gate)
	jobs := authed.Group("/jobs")
	jobs.POST("", jobHandler.Create)
	jobs.GET("", jobHandler.List)
	jobs.GET("/:id", jobHandler.Get)
	jobs.PUT("/:id", jobHandler.Update)
	jobs.PATCH("/:id/status", webhttp.RequireCapability(roles.CapModerate), jobHandler.ChangeStatus)
	jobs.PATCH("/:id/visibility", jobHandler.ChangeVisibility)
	jobs.DELETE("/:id", jobHandler.Delete)
	jobs.POST("/:id/restore", webhttp.RequireCapability(roles.CapRestore), jobHandler.Restore)
	jobs.DELETE("/:id/permanent", webhttp.RequireCapability(roles.CapViewDeleted), jobHandler.PermanentDelete)
	jobs.DELETE("", webhttp.RequireCapability(roles.CapViewDeleted), jobHandler.DeleteAll)

	advertisementHandler := handlers.NewAdvertisementHandler(db, gate, store)
	advertisements := authed.Group("/advertisements")
	advertisements.POST("", advertisementHandler.Create)
	advertisements.GET("", advertisementHandler.List)
	advertisements.GET("/:id", advertisementHandler.Get)
	advertisements.PUT("/:id", advertisementHandler.Update)
	advertisements.PATCH("/:id/status", webhttp.RequireCapability(roles.CapModerate), advertisementHandler.ChangeStatus)
	advertisements.PATCH("/:id/visibility", advertisementHandler.ChangeVisibility)
	advertisements.DELETE("/:id/image", advertisementHandler.RemoveImage)
	advertisements.DELETE("/:id", advertisementHandler.Delete)
	advertisements.POST("/:id/restore", webhttp.RequireCapability(roles.CapRestore), advertisementHandler.Restore)
	advertisements.DELETE("/:id/permanent", webhttp.RequireCapability(roles.CapViewDeleted), advertisementHandler.PermanentDelete)
	advertisements.DELETE("", webhttp.RequireCapability(roles.CapViewDeleted), advertisementHandler.DeleteAll)

	contentHandler := handlers.NewContentHandler(db, gate, store)
	galleries := authed.Group("/galleries", webhttp.RequireCapability(roles.CapManageContent))
	galleries.POST("", contentHandler.CreateGallery)
	galleries.GET("", contentHandler.ListGalleries)
	galleries.PATCH("/:id/visibility", contentHandler.ChangeGalleryVisibility)
	galleries.DELETE("/:id/image", contentHandler.RemoveGalleryImage)
	galleries.DELETE("/:id", contentHandler.DeleteGallery)
	galleries.POST("/:id/restore", webhttp.RequireCapability(roles.CapRestore), contentHandler.RestoreGallery)
	galleries.DELETE("/:id/permanent", webhttp.RequireCapability(roles.CapViewDeleted), contentHandler.PermanentDeleteGallery)
	galleries.DELETE("", webhttp.RequireCapability(roles.CapViewDeleted), contentHandler.DeleteAllGalleries)

	news := authed.Group("/news", webhttp.RequireCapability(roles.CapManageContent))
	news.POST("", contentHandler.CreateNews)
	news.GET("", contentHandler.ListNews)
	news.PUT("/:id", contentHandler.UpdateNews)
	news.PATCH("/:id/visibility", contentHandler.ChangeNewsVisibility)
	news.DELETE("/:id", contentHandler.DeleteNews)
	news.POST("/:id/restore", webhttp.RequireCapability(roles.CapRestore), contentHandler.RestoreNews)
	news.DELETE("/:id/permanent", webhttp.RequireCapability(roles.CapViewDeleted), contentHandler.PermanentDeleteNews)
	news.DELETE("", webhttp.RequireCapability(roles.CapViewDeleted), contentHandler.DeleteAllNews)

	events := authed.Group("/events", webhttp.RequireCapability(roles.CapManageContent))
	events.POST("", contentHandler.CreateEvent)
	events.GET("", contentHandler.ListEvents)
	events.PUT("/:id", contentHandler.UpdateEvent)
	events.PATCH("/:id/visibility", contentHandler.ChangeEventVisibility)
	events.DELETE("/:id", contentHandler.DeleteEvent)
	events.POST("/:id/restore", webhttp.RequireCapability(roles.CapRestore), contentHandler.RestoreEvent)
	events.DELETE("/:id/permanent", webhttp.RequireCapability(roles.CapViewDeleted), contentHandler.PermanentDeleteEvent)
	events.DELETE("", webhttp.RequireCapability(roles.CapViewDeleted), contentHandler.DeleteAllEvents)
}
