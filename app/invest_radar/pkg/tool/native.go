package tool

import "context"

// Native 直接转发给宿主，不生成任何数据
type Native struct {
	host Host
}

// Ensure Native implements Protocol
var _ Protocol = (*Native)(nil)

// NewNative 包装宿主能力
func NewNative(host Host) *Native {
	return &Native{host: host}
}

func (n *Native) RegisterTool(ctx context.Context, d Descriptor) error {
	return n.host.RegisterTool(ctx, d)
}

func (n *Native) ExecuteTool(ctx context.Context, name string, params Params) (Result, error) {
	return n.host.ExecuteTool(ctx, name, params)
}

func (n *Native) Simulated() bool { return false }
