package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sttts/kexplorer/pkg/appconfig"
)

func newUseContextCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use-context <name>",
		Short: "Make a kubeconfig context the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup()
			if err != nil {
				return err
			}
			if err := env.kubeconfig.SetCurrentContext(args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Switched to context %q.\n", args[0])
			return err
		},
	}
}

func newUseKubeconfigCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use-kubeconfig <path>",
		Short: "Make a kubeconfig file the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			cfgPath, err := opts.resolveConfigPath()
			if err != nil {
				return err
			}
			cfg, err := appconfig.LoadFile(cfgPath)
			if err != nil {
				return err
			}
			cfg.SetActiveKubeconfig(path)
			if err := appconfig.SaveFile(cfgPath, cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Using kubeconfig %s.\n", path)
			return err
		},
	}
}
