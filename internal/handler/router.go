package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/ping", Ping)
	r.POST("/connect", ConnectHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ds := r.Group("/datasets")
	ds.GET("", ListDatasetsHandler)
	ds.GET("/:dataset/columns", ListColumnsHandler)
	ds.PUT("/:dataset/columns", SetColumnsHandler)
	ds.GET("/:dataset/view", ViewHandler)
	ds.PUT("/:dataset/filters/:field", SetFilterHandler)
	ds.DELETE("/:dataset/filters/:field", DeleteFilterHandler)
	ds.PUT("/:dataset/page", SetPageHandler)
	ds.PUT("/:dataset/limit", SetLimitHandler)
	ds.POST("/:dataset/refresh", RefreshHandler)
	ds.GET("/:dataset/export", ExportHandler)

	r.GET("/predict/questionnaire", QuestionnaireHandler)
	r.POST("/predict", PredictHandler)
	r.GET("/targeting/coverage", CoverageHandler)
	r.GET("/targeting/efficiency", EfficiencyHandler)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
