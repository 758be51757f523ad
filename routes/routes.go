package routes

import (
	"baggr-backend/config"
	"baggr-backend/firebase"
	"baggr-backend/handlers"
	"baggr-backend/identity"
	"baggr-backend/middleware"
	"baggr-backend/services"
	"baggr-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Identity is everything the directory needs from the authentication
// service. *identity.Client implements it.
type Identity interface {
	identity.AuthorizationProvider
	identity.IdentityResolver
	handlers.UserInfoRelay
}

type DirectoryDeps struct {
	DB       *gorm.DB
	Config   *config.DirectoryConfig
	Identity Identity
	Storage  firebase.StorageClient
}

// SetupDirectoryRoutes registers the provider directory API. Reads are
// public; writes need a staff identity confirmed by the auth service.
func SetupDirectoryRoutes(r *gin.Engine, deps DirectoryDeps) {
	store := services.NewCategoryStore(deps.DB, deps.Config.RequireActiveParent)

	api := &handlers.DirectoryAPI{
		Categories:  handlers.NewCategoryHandler(store, deps.Config.MaxTreeDepth),
		Providers:   &handlers.ProviderHandler{DB: deps.DB, Categories: store, Storage: deps.Storage},
		Reviews:     &handlers.ReviewHandler{DB: deps.DB},
		Types:       &handlers.ProviderTypeHandler{DB: deps.DB},
		Tags:        &handlers.TagHandler{DB: deps.DB},
		CurrentUser: &handlers.CurrentUserHandler{Identity: deps.Identity},
	}
	api.Register(r, handlers.DirectoryGates{
		StaffOrReadOnly: middleware.StaffOrReadOnly(deps.Identity),
		StaffOnly:       middleware.StaffOnly(deps.Identity),
		SignedIn:        middleware.RequireIdentity(deps.Identity),
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

type AuthDeps struct {
	DB      *gorm.DB
	Config  *config.AuthConfig
	Mailer  utils.Mailer
	Storage firebase.StorageClient
	// Limiter throttles the credential and email endpoints. Nil disables it.
	Limiter *middleware.RateLimiter
}

// SetupAuthRoutes registers the authentication API under /api.
func SetupAuthRoutes(r *gin.Engine, deps AuthDeps) {
	authHandler := &handlers.AuthHandler{
		DB:      deps.DB,
		Config:  deps.Config,
		Mailer:  deps.Mailer,
		Storage: deps.Storage,
	}

	var throttle []gin.HandlerFunc
	if deps.Limiter != nil {
		throttle = append(throttle, deps.Limiter.Middleware())
	}
	authHandler.Register(r, throttle...)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
