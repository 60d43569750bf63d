package router

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-office-rental/internal/core/config"
	"go-office-rental/internal/core/server"
	"go-office-rental/internal/transport/http/ez"
	mdw "go-office-rental/internal/transport/http/middleware"
	resp "go-office-rental/internal/transport/http/response"
)

type Options struct {
	Log         *zap.Logger
	Limits      config.Limits
	CORSOrigins []string
	Guard       *mdw.Guard
	Registry    *Registry
	// Ready 健康检查时探测依赖（DB / Redis），可为空
	Ready func(ctx context.Context) error
}

var fieldNamesOnce sync.Once

func NewAPIEngine(o Options) *gin.Engine {
	fieldNamesOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			resp.JSONFieldNames(v)
		}
	})
	r := server.NewRouter(o.Log, o.CORSOrigins)

	// 中间件；限流类配置为 0 表示不启用
	lim := o.Limits
	r.Use(mdw.RequestID())
	if lim.RPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(lim.RPS), max(lim.Burst, 1)))
	}
	if lim.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(lim.Concurrency))
	}
	if lim.MaxBodyMB > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyMB << 20))
	}
	if lim.TimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(lim.TimeoutSec) * time.Second))
	}
	r.Use(mdw.Metrics(), mdw.AccessLog(o.Log))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		if o.Ready != nil {
			if err := o.Ready(c.Request.Context()); err != nil {
				o.Log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "dependency unavailable"))
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 前缀
	api := ez.New(r.Group("/api/v1"), o.Guard.Require)
	o.Registry.MountAll(api)
	return r
}
