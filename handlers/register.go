package handlers

import (
	"baggr-backend/middleware"

	"github.com/gin-gonic/gin"
)

// DirectoryGates are the access checks the directory routes are mounted
// behind. They come from the identity service client in production.
type DirectoryGates struct {
	StaffOrReadOnly gin.HandlerFunc
	StaffOnly       gin.HandlerFunc
	SignedIn        gin.HandlerFunc
}

// DirectoryAPI groups the handlers of the provider directory.
type DirectoryAPI struct {
	Categories  *CategoryHandler
	Providers   *ProviderHandler
	Reviews     *ReviewHandler
	Types       *ProviderTypeHandler
	Tags        *TagHandler
	CurrentUser *CurrentUserHandler
}

// Register mounts the directory routes on r.
func (a *DirectoryAPI) Register(r gin.IRouter, g DirectoryGates) {
	categories := r.Group("/categories", g.StaffOrReadOnly)
	{
		categories.GET("/", a.Categories.GetCategories)
		categories.POST("/", a.Categories.CreateCategory)
		categories.GET("/:id", a.Categories.GetCategory)
		categories.GET("/:id/ancestors", a.Categories.GetAncestors)
		categories.PUT("/:id", a.Categories.UpdateCategory)
		categories.PATCH("/:id", a.Categories.UpdateCategory)
		categories.DELETE("/:id", a.Categories.DeleteCategory)
	}

	r.GET("/current_user/", a.CurrentUser.GetCurrentUser)

	providers := r.Group("/providers")
	{
		providers.GET("/", a.Providers.GetProviders)
		providers.GET("/:slug", a.Providers.GetProvider)
		providers.GET("/:slug/reviews/", a.Reviews.GetReviews)

		// Any signed-in identity
		providers.POST("/:slug/reviews/", g.SignedIn, a.Reviews.CreateReview)
		providers.POST("/:slug/pin", g.SignedIn, a.Providers.Pin)
		providers.DELETE("/:slug/pin", g.SignedIn, a.Providers.Unpin)
	}

	staff := providers.Group("", g.StaffOnly)
	{
		staff.POST("/", a.Providers.CreateProvider)
		staff.PUT("/:slug", a.Providers.UpdateProvider)
		staff.PATCH("/:slug", a.Providers.UpdateProvider)
		staff.DELETE("/:slug", a.Providers.DeleteProvider)

		staff.POST("/:slug/images", a.Providers.AddImage)
		staff.DELETE("/:slug/images/:imageId", a.Providers.DeleteImage)

		staff.POST("/:slug/products", a.Providers.AddProduct)
		staff.PUT("/:slug/products/:productId", a.Providers.UpdateProduct)
		staff.PATCH("/:slug/products/:productId", a.Providers.UpdateProduct)
		staff.DELETE("/:slug/products/:productId", a.Providers.DeleteProduct)

		staff.POST("/:slug/social-links", a.Providers.AddSocialLink)
		staff.DELETE("/:slug/social-links/:linkId", a.Providers.DeleteSocialLink)

		staff.PUT("/:slug/specifications", a.Providers.SetSpecificationValue)
		staff.DELETE("/:slug/specifications/:valueId", a.Providers.DeleteSpecificationValue)

		staff.PUT("/:slug/tags", a.Providers.SetTags)
	}

	reviews := r.Group("/reviews", g.SignedIn)
	{
		reviews.PUT("/:id", a.Reviews.UpdateReview)
		reviews.PATCH("/:id", a.Reviews.UpdateReview)
		reviews.DELETE("/:id", a.Reviews.DeleteReview)
	}

	types := r.Group("/provider-types", g.StaffOrReadOnly)
	{
		types.GET("/", a.Types.GetProviderTypes)
		types.POST("/", a.Types.CreateProviderType)
		types.GET("/:id", a.Types.GetProviderType)
		types.POST("/:id/specifications", a.Types.AddSpecification)
	}

	tags := r.Group("/tags", g.StaffOrReadOnly)
	{
		tags.GET("/", a.Tags.GetTags)
		tags.POST("/", a.Tags.CreateTag)
		tags.DELETE("/:id", a.Tags.DeleteTag)
	}
}

// Register mounts the authentication routes under /api. throttle runs in
// front of the credential and email endpoints.
func (h *AuthHandler) Register(r gin.IRouter, throttle ...gin.HandlerFunc) {
	with := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, throttle...), fn)
	}

	api := r.Group("/api")
	{
		api.POST("/signup/", with(h.Signup)...)
		api.POST("/verify-email/", with(h.VerifyEmail)...)
		api.POST("/resend-otp/", with(h.ResendOTP)...)
		api.POST("/token/", with(h.Token)...)
		api.POST("/token/refresh/", h.RefreshToken)
		api.POST("/logout/", h.Logout)
		api.POST("/password/forgot/", with(h.ForgotPassword)...)
		api.POST("/password/reset/", with(h.ResetPassword)...)
	}

	// Protected routes (require an access token)
	protected := api.Group("", middleware.AuthMiddleware())
	{
		protected.GET("/userinfo/", h.GetUserInfo)
		protected.PATCH("/userinfo/", h.UpdateUserInfo)
		protected.PUT("/userinfo/", h.UpdateUserInfo)
		protected.POST("/userinfo/picture/", h.UploadPicture)
		protected.POST("/password/change/", h.ChangePassword)
	}
}
