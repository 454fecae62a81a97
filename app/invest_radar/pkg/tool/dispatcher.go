package tool

import "context"

// HostProbe 探测当前环境是否提供原生宿主，没有时返回 nil
type HostProbe func() Host

// Dispatcher 每次调用时探测宿主：有则走 Native，否则走 Simulated
type Dispatcher struct {
	probe HostProbe
	sim   *Simulated
}

// Ensure Dispatcher implements Protocol
var _ Protocol = (*Dispatcher)(nil)

// NewDispatcher 创建分发器，probe 可以为 nil
func NewDispatcher(probe HostProbe, sim *Simulated) *Dispatcher {
	if sim == nil {
		sim = NewSimulated(DefaultSimDelay)
	}
	return &Dispatcher{probe: probe, sim: sim}
}

// StaticHost 总是返回同一个宿主（可以为 nil）的探测函数
func StaticHost(h Host) HostProbe {
	return func() Host { return h }
}

// Current 返回本次调用应使用的实现
func (d *Dispatcher) Current() Protocol {
	if d.probe != nil {
		if h := d.probe(); h != nil {
			return NewNative(h)
		}
	}
	return d.sim
}

func (d *Dispatcher) RegisterTool(ctx context.Context, desc Descriptor) error {
	return d.Current().RegisterTool(ctx, desc)
}

func (d *Dispatcher) ExecuteTool(ctx context.Context, name string, params Params) (Result, error) {
	return d.Current().ExecuteTool(ctx, name, params)
}

func (d *Dispatcher) Simulated() bool {
	return d.Current().Simulated()
}

// Tools 当前实现支持列出时返回已注册工具
func (d *Dispatcher) Tools() []Descriptor {
	if l, ok := d.Current().(Lister); ok {
		return l.Tools()
	}
	return nil
}
