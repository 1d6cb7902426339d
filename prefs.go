package main

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/textfit/layout"
	"github.com/ByLCY/textfit/prefstore"
)

// prefsView 是 prefs 子命令的输出。
type prefsView struct {
	Role     layout.TextRole            `json:"role" yaml:"role"`
	Stored   layout.Preferences         `json:"stored" yaml:"stored"`
	Resolved layout.ResolvedPreferences `json:"resolved" yaml:"resolved"`
	Order    []string                   `json:"order" yaml:"order"`
}

func newPrefsView(role layout.TextRole, p layout.Preferences) prefsView {
	resolved := p.Resolve(role)
	order := layout.EffectiveOrder(role, resolved)
	names := make([]string, len(order))
	for i, id := range order {
		names[i] = id.String()
	}
	return prefsView{Role: role, Stored: p, Resolved: resolved, Order: names}
}

func (a *app) newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the stored fitting preferences",
	}
	cmd.AddCommand(a.newPrefsGetCmd(), a.newPrefsSetCmd(), a.newPrefsResetCmd())
	return cmd
}

// withStore 解析角色参数并打开偏好存储。
func (a *app) withStore(roleArg string, fn func(layout.TextRole, *prefstore.Store) error) error {
	role, err := layout.ParseRole(roleArg)
	if err != nil {
		return err
	}
	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(role, store)
}

func (a *app) newPrefsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <role>",
		Short: "Print the stored preferences merged over the role defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(args[0], func(role layout.TextRole, store *prefstore.Store) error {
				p := store.Get(cmd.Context(), role)
				return writeOutput(cmd.OutOrStdout(), a.cfg.Output, newPrefsView(role, p))
			})
		},
	}
}

func (a *app) newPrefsSetCmd() *cobra.Command {
	var prefs prefFlags
	cmd := &cobra.Command{
		Use:   "set <role>",
		Short: "Merge the given flags into the stored preferences",
		Example: `  textfit prefs set statHeading --force-two-line --min-font-percent 70
  textfit prefs set title --allow-wrap=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(args[0], func(role layout.TextRole, store *prefstore.Store) error {
				ctx := cmd.Context()
				merged := store.Merge(role, store.Get(ctx, role), prefs.collect(cmd))

				w := prefstore.NewDebouncedWriter(store, 0)
				w.Set(role, merged)
				w.Flush(ctx)

				return writeOutput(cmd.OutOrStdout(), a.cfg.Output, newPrefsView(role, store.Get(ctx, role)))
			})
		},
	}
	prefs.bind(cmd)
	return cmd
}

func (a *app) newPrefsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <role>",
		Short: "Forget the stored preferences for a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(args[0], func(role layout.TextRole, store *prefstore.Store) error {
				store.Reset(cmd.Context(), role)
				return writeOutput(cmd.OutOrStdout(), a.cfg.Output, newPrefsView(role, store.Defaults(role)))
			})
		},
	}
}
