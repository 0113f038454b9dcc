package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"docanalyzer/internal/bootstrap"
	"docanalyzer/internal/transport/http/handler"
	"docanalyzer/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.AccessLog(app.Logger.Named("http")), gin.Recovery())
	router.Use(middleware.CORS(app.Config.App.CORSOrigins))

	healthHandler := handler.NewHealthHandler(
		app.Config.App.Name,
		app.Config.App.Env,
		app.StartedAt,
		handler.DependencyCheck{Name: "bus", Check: app.BusStatus},
	)
	router.GET("/healthz", healthHandler.Check)

	documentHandler := handler.NewDocumentHandler(app.Workspace, app.Policy)
	chatHandler := handler.NewChatHandler(app.Workspace, app.Dispatcher)

	v1 := router.Group("/api/v1")

	documentGroup := v1.Group("/documents")
	documentGroup.POST("", documentHandler.Upload)
	documentGroup.GET("", documentHandler.List)
	documentGroup.DELETE("/:id", documentHandler.Delete)
	documentGroup.POST("/:id/select", documentHandler.Select)

	chatGroup := v1.Group("/chats")
	chatGroup.GET("", chatHandler.History)
	chatGroup.POST("", chatHandler.NewChat)
	chatGroup.GET("/current", chatHandler.Current)
	chatGroup.POST("/:id/select", chatHandler.Select)

	v1.POST("/messages", chatHandler.SendMessage)
	v1.GET("/notices", chatHandler.Notices)

	return router
}

// NewAnalyzerRouter serves the analysis collaborator.
func NewAnalyzerRouter(app *bootstrap.AnalyzerApp) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.AccessLog(app.Logger.Named("http")), gin.Recovery())
	router.Use(middleware.CORS(app.Config.App.CORSOrigins))

	healthHandler := handler.NewHealthHandler(
		app.Config.App.Name+"-analyzer",
		app.Config.App.Env,
		app.StartedAt,
		handler.DependencyCheck{Name: "llm", Check: func(context.Context) error { return app.LLMStatus() }},
	)
	router.GET("/healthz", healthHandler.Check)

	analyzeHandler := handler.NewAnalyzeHandler(app.Service, app.Logger.Named("analyze"))
	router.POST("/api/analyze", analyzeHandler.Analyze)

	return router
}
