package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yoockh/devconnect/internal/api/handlers"
	"github.com/yoockh/devconnect/internal/api/middleware"
)

type Deps struct {
	Tokens  middleware.TokenVerifier
	Users   *handlers.UserHandler
	Profile *handlers.ProfileHandler
	GitHub  *handlers.GitHubHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	requireAuth := middleware.JWTAuth(d.Tokens)
	api := r.Group("/api")

	api.POST("/users", d.Users.Register)
	api.POST("/auth", d.Users.Login)
	api.GET("/auth", requireAuth, d.Users.Me)

	profile := api.Group("/profile")
	{
		// public
		profile.GET("", d.Profile.List)
		profile.GET("/user/:user_id", d.Profile.GetByUserID)
		profile.GET("/github/:username", d.GitHub.Repos)

		// owner only
		profile.GET("/me", requireAuth, d.Profile.Me)
		profile.POST("", requireAuth, d.Profile.Upsert)
		profile.DELETE("", requireAuth, d.Profile.Delete)

		profile.PUT("/experience", requireAuth, d.Profile.AddExperience)
		profile.DELETE("/experience/:exp_id", requireAuth, d.Profile.RemoveExperience)
		profile.PUT("/education", requireAuth, d.Profile.AddEducation)
		profile.DELETE("/education/:edu_id", requireAuth, d.Profile.RemoveEducation)
	}
}
