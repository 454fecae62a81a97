package server

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/invest_radar/app/display/internal/conf"
	"github.com/iWorld-y/invest_radar/app/display/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.DisplayService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
	}

	srv := http.NewServer(opts...)
	RegisterDisplayHTTPServer(srv, s)
	return srv
}

// RegisterDisplayHTTPServer 注册 /v1 下的全部路由
func RegisterDisplayHTTPServer(srv *http.Server, s *service.DisplayService) {
	r := srv.Route("/")
	r.GET("/v1/analyze", handle(bindQuery[service.AnalyzeReq], s.Analyze))
	r.GET("/v1/report", handle(bindQuery[service.AnalyzeReq], s.Report))
	r.GET("/v1/mode", handle(noBind[service.ModeReq], s.GetMode))
	r.PUT("/v1/mode", handle(bindBody[service.ModeReq], s.SetMode))
	r.GET("/v1/endpoint", handle(noBind[service.EndpointReq], s.GetEndpoint))
	r.PUT("/v1/endpoint", handle(bindBody[service.EndpointReq], s.SetEndpoint))
	r.GET("/v1/tools", handle(noBind[service.ToolsReq], s.ListTools))
}

func bindQuery[T any](ctx http.Context, in *T) error { return ctx.BindQuery(in) }

func bindBody[T any](ctx http.Context, in *T) error { return ctx.Bind(in) }

func noBind[T any](http.Context, *T) error { return nil }

// handle 绑定请求并经过服务端中间件调用 fn
func handle[Req, Reply any](
	bind func(http.Context, *Req) error,
	fn func(context.Context, *Req) (*Reply, error),
) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in Req
		if err := bind(ctx, &in); err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return fn(ctx, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}
