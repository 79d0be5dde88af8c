package seller

import "github.com/bazaar-next/internal/provider"

// Handler 卖家接口处理器入口
// 说明：该处理器用于卖家经营端 API，管理员可越权访问。
type Handler struct {
	*provider.Container
}

// New 创建卖家处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
