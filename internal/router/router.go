// Package router wires handlers and middleware into the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	DB          *gorm.DB
	Auth        service.IAuthService
	Users       service.IUserService
	Recipes     service.IRecipeService
	Tags        service.ITagService
	Ingredients service.IIngredientService
	// RecipeLimiter guards recipe creation; nil disables it.
	RecipeLimiter *middleware.RateLimiter
	CORSOrigins   []string
	// MediaDir is served under /media when set.
	MediaDir string
}

// SetupRouter configures the application routes
func SetupRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(d.CORSOrigins),
	)
	router.NoRoute(middleware.NotFound())

	health := api.NewHealthHandler(d.DB)
	router.GET("/health", health.Check)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	if d.MediaDir != "" {
		router.Static("/media", d.MediaDir)
	}

	authHandler := api.NewAuthHandler(d.Auth)
	userHandler := api.NewUserHandler(d.Users)
	tagHandler := api.NewTagHandler(d.Tags)
	ingredientHandler := api.NewIngredientHandler(d.Ingredients)
	recipeHandler := api.NewRecipeHandler(d.Recipes)

	requireAuth := middleware.AuthMiddleware(d.Auth)
	optionalAuth := middleware.OptionalAuth(d.Auth)
	createLimit := func(c *gin.Context) { c.Next() }
	if d.RecipeLimiter != nil {
		createLimit = d.RecipeLimiter.Middleware()
	}

	v := router.Group("/api")
	v.GET("/health", health.Check)

	auth := v.Group("/auth/token")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", requireAuth, authHandler.Logout)
	}

	users := v.Group("/users")
	{
		users.POST("", userHandler.Register)
		users.GET("", optionalAuth, userHandler.List)
		users.GET("/me", requireAuth, userHandler.Me)
		users.POST("/set_password", requireAuth, authHandler.SetPassword)
		users.GET("/subscriptions", requireAuth, userHandler.Subscriptions)
		users.GET("/:id", optionalAuth, userHandler.Get)
		users.POST("/:id/subscribe", requireAuth, userHandler.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, userHandler.Unsubscribe)
	}

	tags := v.Group("/tags", optionalAuth, middleware.AdminOrReadOnly())
	{
		tags.GET("", tagHandler.List)
		tags.GET("/:id", tagHandler.Get)
		tags.POST("", tagHandler.Create)
		tags.PATCH("/:id", tagHandler.Update)
		tags.DELETE("/:id", tagHandler.Delete)
	}

	ingredients := v.Group("/ingredients", optionalAuth, middleware.AdminOrReadOnly())
	{
		ingredients.GET("", ingredientHandler.List)
		ingredients.GET("/:id", ingredientHandler.Get)
		ingredients.POST("", ingredientHandler.Create)
		ingredients.PATCH("/:id", ingredientHandler.Update)
		ingredients.DELETE("/:id", ingredientHandler.Delete)
	}

	recipes := v.Group("/recipes")
	{
		recipes.GET("", optionalAuth, recipeHandler.List)
		recipes.POST("", requireAuth, createLimit, recipeHandler.Create)
		recipes.GET("/favorites", requireAuth, recipeHandler.Favorites)
		recipes.GET("/download_shopping_cart", requireAuth, recipeHandler.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, recipeHandler.Get)
		recipes.PATCH("/:id", requireAuth, recipeHandler.Update)
		recipes.DELETE("/:id", requireAuth, recipeHandler.Delete)
		recipes.POST("/:id/favorite", requireAuth, recipeHandler.AddFavorite)
		recipes.DELETE("/:id/favorite", requireAuth, recipeHandler.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", requireAuth, recipeHandler.AddToCart)
		recipes.DELETE("/:id/shopping_cart", requireAuth, recipeHandler.RemoveFromCart)
	}

	return router
}
