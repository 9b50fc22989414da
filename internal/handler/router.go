package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/XBC-D2O/acpoke-plugin/internal/middleware"
	"github.com/XBC-D2O/acpoke-plugin/internal/model"
	"github.com/XBC-D2O/acpoke-plugin/internal/service"
)

// Router 注册路由与中间件
func Router(svc *service.PokeService, info model.PluginInfo, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logger(log))

	pokeHandler := NewPokeHandler(svc, info)
	v1 := r.Group("/api/v1")
	{
		v1.POST("/actions/poke", pokeHandler.Trigger)
		v1.GET("/plugin/info", pokeHandler.Info)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
