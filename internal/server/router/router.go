package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/server/handlers"
	"github.com/mamadbah2/concreto/internal/server/middleware"
)

// Deps groups everything the HTTP surface needs.
type Deps struct {
	Mixes    *handlers.MixHandler
	Device   *handlers.DeviceHandler
	Webhook  *handlers.WebhookHandler // nil disables operator chat commands
	Auth     middleware.OwnerResolver
	Gatherer prometheus.Gatherer
}

// New wires the Gin engine with required routes and middlewares.
func New(deps Deps, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Meta authenticates the webhook through the verify token, not a bearer token.
	if deps.Webhook != nil {
		r.GET("/webhook", deps.Webhook.Verify)
		r.POST("/webhook", deps.Webhook.Receive)
	}

	api := r.Group("/api/v1", middleware.RequireAuth(deps.Auth, logger))

	mixes := api.Group("/mixes")
	mixes.POST("/validate", deps.Mixes.Validate)
	mixes.POST("/balance", deps.Mixes.Balance)
	mixes.GET("/templates", deps.Mixes.Templates)
	mixes.POST("", deps.Mixes.Submit)
	mixes.GET("", deps.Mixes.History)
	mixes.GET("/recommendation", deps.Mixes.Recommendation)
	mixes.GET("/analytics", deps.Mixes.Analytics)
	mixes.GET("/export.csv", deps.Mixes.ExportCSV)
	mixes.POST("/export/sheets", deps.Mixes.ExportSheets)

	dev := api.Group("/device")
	dev.GET("/sensors", deps.Device.Sensors)
	dev.POST("/commands", deps.Device.SendCommand)
	dev.GET("/ping", deps.Device.Ping)

	mixer := api.Group("/mixer")
	mixer.POST("/start", deps.Device.StartMixing)
	mixer.POST("/stop", deps.Device.StopMixing)
	mixer.GET("/status", deps.Device.MixerStatus)

	logger.Info("router initialized")
	return r
}
