package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/textfit/config"
	"github.com/ByLCY/textfit/layout"
)

// app 保存一次命令执行所需的全局选项与已加载的配置。
type app struct {
	cfgFile      string
	outputFormat string
	verbose      bool

	cfgm *config.Manager
	cfg  config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "textfit",
		Short: "Fit card titles and stat headings into fixed boxes",
		Long: `textfit picks a font size and line breaks so that a card title or stat
heading fits its box, trying wrap, shrink, hyphenate, ellipsis and overflow
in a per-role order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(
		&a.cfgFile, "config", "", "config file (default: ./textfit.yaml or ~/.textfit/textfit.yaml)",
	)
	root.PersistentFlags().StringVarP(
		&a.outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every fitting step to stderr")

	root.AddCommand(a.newFitCmd(), a.newBatchCmd(), a.newPrefsCmd())
	return root
}

// setup 加载配置并按需开启调试日志。
func (a *app) setup(cmd *cobra.Command) error {
	m, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		if err := m.Set("output", a.outputFormat); err != nil {
			return err
		}
	}
	a.cfgm = m
	a.cfg = m.Get()

	if a.verbose {
		handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
		layout.SetLogger(slog.New(handler))
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
