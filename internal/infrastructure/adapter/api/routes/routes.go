package routes

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers wired into the router
type Handlers struct {
	User    *handler.UserHandler
	Catalog *handler.CatalogHandler
	Health  *handler.HealthHandler
	Metrics http.Handler // nil disables the metrics route
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, metricsPath string) {
	router.GET("/healthz", h.Health.Health)
	if h.Metrics != nil {
		router.GET(metricsPath, gin.WrapH(h.Metrics))
	}

	router.GET("/words", h.Catalog.ListWords)

	userRoutes := router.Group("/users/:userId")
	{
		userRoutes.GET("", h.User.GetAccount)
		userRoutes.GET("/letters", h.User.GetLetters)
		userRoutes.GET("/transactions", h.User.ListTransactions)

		userRoutes.POST("/deposits", h.User.RecordDeposit)
		userRoutes.POST("/daily-login", h.User.DailyLogin)
		userRoutes.POST("/spins", h.User.Spin)
		userRoutes.POST("/words/:wordId/claim", h.User.ClaimWord)
	}

	adminRoutes := router.Group("/admin")
	{
		adminRoutes.POST("/deposit-missions", h.Catalog.CreateDepositMission)
		adminRoutes.POST("/daily-login-missions", h.Catalog.CreateDailyLoginMission)
		adminRoutes.POST("/slots", h.Catalog.CreateSlot)
		adminRoutes.POST("/words", h.Catalog.CreateWord)
		adminRoutes.PATCH("/:kind/:id/active", h.Catalog.SetActive)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
}
