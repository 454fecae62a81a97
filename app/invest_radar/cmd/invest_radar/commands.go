package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/config"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/engine"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/fetch"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/logger"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
)

// cli 命令共享的状态
type cli struct {
	configPath string
	rt         *engine.Runtime
	cleanup    func()
}

// run 执行命令并在结束后释放资源
func run(ctx context.Context, args []string, out io.Writer) error {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	defer c.close()
	return root.ExecuteContext(ctx)
}

func (c *cli) close() {
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "invest_radar",
		Short:        "投资雷达：获取实体的信号报告并给出投资结论",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "configs/config.yaml", "配置文件路径")

	root.AddCommand(
		c.analyzeCmd(),
		c.reportCmd(),
		c.modeCmd(),
		c.endpointCmd(),
		c.toolsCmd(),
		c.portfolioCmd(),
		c.watchCmd(),
	)
	return root
}

func (c *cli) setup(ctx context.Context) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("无法加载配置文件: %w", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}
	rt, cleanup, err := engine.Setup(ctx, cfg, nil)
	if err != nil {
		return err
	}
	c.rt = rt
	c.cleanup = cleanup
	return nil
}

func progressLogger(entity string) engine.RunOptions {
	return engine.RunOptions{
		ProgressCallback: func(status string, progress int) {
			logger.Log.Infof("[%s] %s (%d%%)", entity, status, progress)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resultView 在结果之外附带展示标签
type resultView struct {
	*model.AnalysisResult
	Label string `json:"label"`
}

func (c *cli) analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <entity>",
		Short: "按当前执行模式分析实体",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.rt.Engine.RunAnalysis(cmd.Context(), args[0], progressLogger(args[0]))
			if err != nil {
				return fmt.Errorf("分析失败: %s", fetch.Detail(err))
			}
			return printJSON(cmd.OutOrStdout(), resultView{res, res.Verdict.Label()})
		},
	}
}

func (c *cli) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <entity>",
		Short: "优先使用组合列表中的已有结果，否则执行分析",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.rt.Engine.Report(cmd.Context(), args[0], progressLogger(args[0]))
			if err != nil {
				return fmt.Errorf("获取报告失败: %s", fetch.Detail(err))
			}
			return printJSON(cmd.OutOrStdout(), resultView{res, res.Verdict.Label()})
		},
	}
}

func (c *cli) modeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "查看或设置执行模式 (backend | simulation)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), c.rt.Modes.Get(cmd.Context()))
			return err
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:  "get",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), c.rt.Modes.Get(cmd.Context()))
				return err
			},
		},
		&cobra.Command{
			Use:       "set <mode>",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(model.ModeBackend), string(model.ModeSimulation)},
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.rt.Modes.Set(cmd.Context(), model.ExecutionMode(args[0])); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), args[0])
				return err
			},
		},
	)
	return cmd
}

func (c *cli) endpointCmd() *cobra.Command {
	get := func(cmd *cobra.Command, _ []string) error {
		res, err := c.rt.Endpoint.Resolve(cmd.Context())
		if err != nil {
			return err
		}
		if res.Reset {
			logger.Log.Warnf("已重置不可信的后端地址")
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), res.BaseURL)
		return err
	}
	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "查看或设置后端地址",
		Args:  cobra.NoArgs,
		RunE:  get,
	}
	cmd.AddCommand(
		&cobra.Command{Use: "get", Args: cobra.NoArgs, RunE: get},
		&cobra.Command{
			Use:  "set <url>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.rt.Endpoint.SetEndpoint(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}

func (c *cli) toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "列出已注册的信号工具",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), c.rt.Dispatcher.Tools())
		},
	}
}

func (c *cli) portfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "列出后端保存的分析结果",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := c.rt.Backend.Portfolio(cmd.Context())
			if err != nil {
				return fmt.Errorf("加载组合列表失败: %s", fetch.Detail(err))
			}
			if items == nil {
				items = []model.AnalysisResult{}
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <entity>",
		Short: "加入后端关注列表",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.rt.Backend.AddWatchlist(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("加入关注列表失败: %s", fetch.Detail(err))
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}
}
