package router

import (
	"net/http"
	"time"

	"github.com/blues/tlindexer/internal/handler"
	"github.com/blues/tlindexer/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Setup 注册运维接口路由
func Setup(indexerHandler *handler.IndexerHandler, log *logger.Logger) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(requestLogger(logger.OrDefault(log).Named("http")))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	// 健康检查
	r.GET("/health", indexerHandler.Health)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		v1.GET("/indexer/status", indexerHandler.GetIndexerStatus)
		v1.GET("/content/stats", indexerHandler.GetContentStats)
		v1.GET("/events/stats", indexerHandler.GetEventStats)
	}

	return r
}

// requestLogger 请求日志中间件
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			log.Warn("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		log.Debug("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
