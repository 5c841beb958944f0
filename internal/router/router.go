package router

import (
	"net/http"
	"time"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/config"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/handler"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/middleware"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/response"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Question   *handler.QuestionHandler
	Assessment *handler.AssessmentHandler
	AI         *handler.AIHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
		auth.PUT("/google-tokens", middleware.RequireAuth(authService), handlers.Auth.SaveGoogleTokens)
	}

	// ─── 2. Question Bank Group (JWT) ──────────────────────────────────
	questions := router.Group("/api/v1/questions")
	questions.Use(middleware.RequireAuth(authService))
	{
		questions.GET("", handlers.Question.ListQuestions)
		questions.POST("", handlers.Question.CreateQuestion)
		questions.GET("/:id", handlers.Question.GetQuestion)
		questions.PUT("/:id", handlers.Question.UpdateQuestion)
		questions.DELETE("/:id", handlers.Question.DeleteQuestion)
	}

	// ─── 3. Assessment Group (JWT) ─────────────────────────────────────
	assessments := router.Group("/api/v1/assessments")
	assessments.Use(middleware.RequireAuth(authService))
	{
		assessments.GET("", handlers.Assessment.ListAssessments)
		assessments.POST("", handlers.Assessment.CreateAssessment)
		assessments.GET("/:id", handlers.Assessment.GetAssessment)
		assessments.PUT("/:id", handlers.Assessment.UpdateAssessment)
		assessments.DELETE("/:id", handlers.Assessment.DeleteAssessment)
	}

	// ─── 4. AI Assistant Group (JWT + Rate Limited) ────────────────────
	// Tighter limit than auth: every call here costs Gemini quota.
	aiLimiter := middleware.NewRateLimiter(10, time.Minute)
	ai := router.Group("/api/v1/ai")
	ai.Use(middleware.RequireAuth(authService), aiLimiter.Middleware())
	{
		ai.POST("/generate-question", handlers.AI.GenerateQuestion)
		ai.POST("/analyze-question", handlers.AI.AnalyzeQuestion)
		ai.POST("/generate-rubric", handlers.AI.GenerateRubric)
		ai.POST("/adapt-question", handlers.AI.AdaptQuestion)
	}

	return router
}
