package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/textfit/layout"
)

// prefFlags 把偏好项暴露为命令行参数，只有显式传入的参数才会写入 Preferences。
type prefFlags struct {
	allowWrap         bool
	minFontPercent    float64
	twoLineMinPercent float64
	allowOverflow     bool
	forceTwoLine      bool
	preferEllipsis    bool
}

func (p *prefFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&p.allowWrap, "allow-wrap", false, "title: allow a two-line layout")
	f.Float64Var(&p.minFontPercent, "min-font-percent", 0, "smallest font size as a percent of the base size (50-100)")
	f.Float64Var(&p.twoLineMinPercent, "two-line-min-percent", 0, "title: smallest size for two-line layouts (50-100)")
	f.BoolVar(&p.allowOverflow, "allow-overflow", false, "keep the base size and let text overflow")
	f.BoolVar(&p.forceTwoLine, "force-two-line", false, "statHeading: always split into two lines")
	f.BoolVar(&p.preferEllipsis, "prefer-ellipsis", false, "truncate with an ellipsis before shrinking")
}

func (p *prefFlags) collect(cmd *cobra.Command) layout.Preferences {
	f := cmd.Flags()
	var out layout.Preferences
	if f.Changed("allow-wrap") {
		out.AllowWrap = layout.Bool(p.allowWrap)
	}
	if f.Changed("min-font-percent") {
		out.MinFontPercent = layout.Percent(p.minFontPercent)
	}
	if f.Changed("two-line-min-percent") {
		out.TwoLineMinPercent = layout.Percent(p.twoLineMinPercent)
	}
	if f.Changed("allow-overflow") {
		out.AllowOverflow = layout.Bool(p.allowOverflow)
	}
	if f.Changed("force-two-line") {
		out.ForceTwoLine = layout.Bool(p.forceTwoLine)
	}
	if f.Changed("prefer-ellipsis") {
		out.PreferEllipsis = layout.Bool(p.preferEllipsis)
	}
	return out
}

// runsReport 在布局之外附带按拟合字号折行后的富文本行。
type runsReport struct {
	Layout   layout.TextLayoutResult `json:"layout" yaml:"layout"`
	RunLines [][]layout.TextRun      `json:"runLines" yaml:"runLines"`
}

func (a *app) newFitCmd() *cobra.Command {
	var (
		roleName  string
		width     string
		height    string
		fromStore bool
		attempts  bool
		preview   bool
		debugPath string
		runsJSON  string
		prefs     prefFlags
	)
	cmd := &cobra.Command{
		Use:   "fit [text]",
		Short: "Fit one text into a box",
		Example: `  textfit fit --role title --width 300 --height 60 "Sir Ragnar the Bold"
  textfit fit --role statHeading --width 140 --height 70 --preview "Movement Squares"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := layout.ParseRole(roleName)
			if err != nil {
				return err
			}
			bounds, err := layout.ParseBounds(width, height)
			if err != nil {
				return err
			}

			p := prefs.collect(cmd).Sanitize(role)
			if fromStore {
				store, closeStore, err := a.openStore()
				if err != nil {
					return err
				}
				defer closeStore()
				p = store.Get(cmd.Context(), role).Overlay(p)
			}

			var runs []layout.TextRun
			if runsJSON != "" {
				if err := json.Unmarshal([]byte(runsJSON), &runs); err != nil {
					return fmt.Errorf("解析 --runs 失败: %w", err)
				}
			}
			text := strings.Join(args, " ")
			switch {
			case len(runs) > 0 && len(args) > 0:
				return errors.New("文本参数与 --runs 不能同时使用")
			case len(runs) > 0:
				text = layout.RunsText(runs)
			case len(args) == 0:
				return errors.New("缺少要排版的文本")
			}

			engine := a.newEngine()
			res := engine.Fit(role, text, bounds, &p)

			if debugPath != "" {
				if err := layout.WriteDebugJSON(&res, debugPath); err != nil {
					return fmt.Errorf("写入调试 JSON 失败: %w", err)
				}
			}
			if preview {
				fmt.Fprintln(cmd.ErrOrStderr(), renderPreview(res.Layout, bounds))
			}
			if attempts {
				return writeOutput(cmd.OutOrStdout(), a.cfg.Output, res)
			}
			if len(runs) > 0 {
				return writeOutput(cmd.OutOrStdout(), a.cfg.Output, runsReport{
					Layout:   res.Layout,
					RunLines: engine.WrapRuns(res.Layout, runs, bounds.Width),
				})
			}
			return writeOutput(cmd.OutOrStdout(), a.cfg.Output, res.Layout)
		},
	}

	cmd.Flags().StringVarP(&roleName, "role", "r", "title", "text role: title or statHeading")
	cmd.Flags().StringVar(&width, "width", "", "box width, e.g. 140, 35mm, 1.5in (required)")
	cmd.Flags().StringVar(&height, "height", "", "box height (required)")
	cmd.Flags().BoolVar(&fromStore, "prefs-from-store", false, "start from the stored preferences for the role")
	cmd.Flags().BoolVar(&attempts, "attempts", false, "print every strategy attempt, not just the result")
	cmd.Flags().BoolVar(&preview, "preview", false, "draw the fitted lines on stderr")
	cmd.Flags().StringVar(&debugPath, "debug", "", "write the attempts as JSON to this path")
	cmd.Flags().StringVar(&runsJSON, "runs", "", `styled runs as JSON, e.g. [{"text":"Hero ","bold":true},{"text":"of Legend"}]`)
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	prefs.bind(cmd)
	return cmd
}
