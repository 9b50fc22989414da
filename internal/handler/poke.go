package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/XBC-D2O/acpoke-plugin/internal/model"
	"github.com/XBC-D2O/acpoke-plugin/internal/service"
)

// PokeHandler 处理戳一戳动作触发请求
type PokeHandler struct {
	pokeService *service.PokeService
	pluginInfo  model.PluginInfo
}

// NewPokeHandler 创建戳一戳处理器
func NewPokeHandler(svc *service.PokeService, info model.PluginInfo) *PokeHandler {
	return &PokeHandler{pokeService: svc, pluginInfo: info}
}

// Trigger 接收宿主的动作触发并执行
// POST /api/v1/actions/poke
// 解析失败 / 冷却拦截 / 派发失败都是业务结果，以 200 + success=false 返回
func (h *PokeHandler) Trigger(c *gin.Context) {
	var inv model.ActionInvocation
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	result := h.pokeService.Execute(c.Request.Context(), inv)
	c.JSON(http.StatusOK, result)
}

// Info 返回插件静态描述
// GET /api/v1/plugin/info
func (h *PokeHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.pluginInfo)
}
