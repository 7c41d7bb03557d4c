// Package port 声明工作流层对外部能力的最小依赖
package port

import (
	"context"

	"github.com/cloudwego/eino/components/model"
)

// ChatModelFactory 按供应商名返回可用的 ChatModel。
// 生成链只依赖这个接口，具体的客户端构建与缓存在基础设施层实现。
type ChatModelFactory interface {
	Get(ctx context.Context, provider string) (model.BaseChatModel, error)
}
