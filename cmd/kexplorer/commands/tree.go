package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sttts/kexplorer/pkg/appconfig"
)

func newTreeCommand(opts *globalOptions) *cobra.Command {
	var (
		depth int
		width int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the cluster tree",
		Example: `  # Contexts and their folders
  kexplorer tree --depth 2

  # Re-print whenever the config file changes
  kexplorer tree --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.setup()
			if err != nil {
				return err
			}
			p := &treePrinter{explorer: env.explorer, out: cmd.OutOrStdout(), depth: depth, width: width, noColor: opts.noColor}
			if !watch {
				return p.Print(cmd.Context())
			}
			return watchTree(cmd.Context(), env, p)
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 3, "levels to expand, 0 for all")
	cmd.Flags().IntVarP(&width, "width", "w", 120, "truncate lines to this width, 0 to disable")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-print the tree when it changes")

	return cmd
}

// watchTree prints the tree and prints it again on every refresh until ctx
// is done. Config file changes are fed into the explorer.
func watchTree(ctx context.Context, env *env, p *treePrinter) error {
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		return err
	}
	watcher, err := appconfig.NewWatcher(env.configPath, env.log.WithName("config"))
	if err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}

	changed := make(chan struct{}, 1)
	unsubscribe := env.explorer.OnDidChangeTreeData(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx, env.onConfigChange)
	})
	g.Go(func() error {
		if err := p.Print(ctx); err != nil {
			return err
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changed:
				if _, err := fmt.Fprintln(p.out); err != nil {
					return err
				}
				if err := p.Print(ctx); err != nil {
					return err
				}
			}
		}
	})
	return g.Wait()
}
