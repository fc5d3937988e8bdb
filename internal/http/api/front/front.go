// Package front registers the account-facing and public API routes.
package front

import (
	"github.com/communityhub-io/communityhub/internal/credentials"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/http/api/front/handlers"
	"github.com/communityhub-io/communityhub/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterFrontRoutes registers the public directory routes and the
// account routes under /api.
func RegisterFrontRoutes(r *gin.Engine, db *gorm.DB, workflow credentials.Workflow, store storage.ObjectStore) {
	if r == nil || db == nil {
		return
	}

	group := r.Group("/api")

	listingHandler := handlers.NewListingHandler(db)
	public := group.Group("/public")
	public.GET("/site", listingHandler.Site)
	public.GET("/categories", listingHandler.Categories)
	public.GET("/businesses", listingHandler.Businesses)
	public.GET("/businesses/:id", listingHandler.Business)
	public.GET("/jobs", listingHandler.Jobs)
	public.GET("/jobs/:id", listingHandler.Job)
	public.GET("/advertisements", listingHandler.Advertisements)
	public.GET("/advertisements/:id", listingHandler.Advertisement)
	public.GET("/galleries", listingHandler.Galleries)
	public.GET("/news", listingHandler.News)
	public.GET("/events", listingHandler.Events)

	authHandler := handlers.NewAuthHandler(workflow)
	group.POST("/business/register", authHandler.RegisterBusiness)
	group.POST("/business/login", authHandler.LoginBusiness)
	group.POST("/business/forgot-password", authHandler.ForgotPasswordBusiness)
	group.POST("/business/reset-password", authHandler.ResetPasswordBusiness)
	group.POST("/personal/register", authHandler.RegisterPersonal)
	group.POST("/personal/login", authHandler.LoginPersonal)
	group.POST("/personal/forgot-password", authHandler.ForgotPasswordPersonal)
	group.POST("/personal/reset-password", authHandler.ResetPasswordPersonal)

	authed := group.Group("/account")
	authed.Use(webhttp.AuthMiddleware(db, workflow.Tokens.Secret), webhttp.RequireAccount())

	authed.GET("/check-status", authHandler.CheckStatus)

	profileHandler := handlers.NewProfileHandler(workflow, store)
	authed.GET("/profile", profileHandler.Get)
	authed.PUT("/profile", profileHandler.Update)
	authed.PUT("/change-password", profileHandler.ChangePassword)
	authed.DELETE("/profile/image", profileHandler.RemoveProfileImage)

	jobHandler := handlers.NewJobHandler(db)
	authed.POST("/jobs", jobHandler.Create)
	authed.GET("/jobs", jobHandler.ListMine)
	authed.PUT("/jobs/:id", jobHandler.UpdateMine)
	authed.DELETE("/jobs/:id", jobHandler.DeleteMine)

	advertisementHandler := handlers.NewAdvertisementHandler(db, store)
	authed.POST("/advertisements", advertisementHandler.Create)
	authed.GET("/advertisements", advertisementHandler.ListMine)
	authed.PUT("/advertisements/:id", advertisementHandler.UpdateMine)
	authed.DELETE("/advertisements/:id/image", advertisementHandler.RemoveImage)
	authed.DELETE("/advertisements/:id", advertisementHandler.DeleteMine)
}
