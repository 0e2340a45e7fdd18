// Package commands implements the kexplorer command line.
package commands

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	klog "k8s.io/klog/v2"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/sttts/kexplorer/internal/explorer"
	"github.com/sttts/kexplorer/pkg/appconfig"
	"github.com/sttts/kexplorer/pkg/kubeconfig"
	"github.com/sttts/kexplorer/pkg/kubectl"
)

type globalOptions struct {
	kubeconfig string
	configPath string
	namespace  string
	debug      bool
	noColor    bool
}

// env is what every subcommand works with.
type env struct {
	opts       *globalOptions
	log        logr.Logger
	configPath string
	config     *appconfig.Config
	kubectl    kubectl.Runner
	kubeconfig *kubeconfig.Manager
	explorer   *explorer.Explorer
}

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, date string) error {
	return newRootCommand(version, commit, date).ExecuteContext(ctx)
}

func newRootCommand(version, commit, date string) *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "kexplorer",
		Short: "Browse Kubernetes clusters as a tree",
		Long: `kexplorer shows kubeconfig contexts, namespaces and resources as a tree.

Extensions contribute nodes and customize how they are shown through the
versioned cluster explorer API.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.kubeconfig, "kubeconfig", "", "path to the kubeconfig file")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default ~/.kexplorer/config.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.namespace, "namespace", "n", "", "namespace resource folders list")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newTreeCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newUseContextCommand(opts))
	cmd.AddCommand(newUseKubeconfigCommand(opts))

	return cmd
}

func newLogger(debug bool) logr.Logger {
	logger := zap.New(zap.WriteTo(os.Stderr), zap.UseDevMode(debug))
	ctrl.SetLogger(logger)
	// Point klog to controller-runtime's logr so both stacks share output
	klog.SetLogger(ctrl.Log)
	return logger
}

func (o *globalOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return appconfig.DefaultPath()
}

func (o *globalOptions) setup() (*env, error) {
	log := newLogger(o.debug)

	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	cfg, err := appconfig.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	o.override(cfg)
	kc := cfg.Explorer.Kubeconfig

	runner := kubectl.NewExecRunner(cfg.ToolPath(runtime.GOOS, "kubectl"), kc, log.WithName("kubectl"))
	runner.UseWSL = cfg.Kubectl.UseWSL

	mgr := kubeconfig.NewManager(kc)
	e := explorer.New(explorer.Options{
		Kubectl:      runner,
		Contexts:     mgr,
		Log:          log,
		RefreshDelay: cfg.Explorer.RefreshDelay.Duration,
		Namespace:    cfg.Explorer.Namespace,
	})

	log.V(1).Info("configured", "config", path, "kubeconfig", kc, "namespace", cfg.Explorer.Namespace)
	return &env{
		opts:       o,
		log:        log,
		configPath: path,
		config:     cfg,
		kubectl:    runner,
		kubeconfig: mgr,
		explorer:   e,
	}, nil
}

// override applies the command line flags, which win over the config file.
func (o *globalOptions) override(cfg *appconfig.Config) {
	if o.kubeconfig != "" {
		cfg.Explorer.Kubeconfig = o.kubeconfig
	}
	if o.namespace != "" {
		cfg.Explorer.Namespace = o.namespace
	}
}

// onConfigChange points kubectl and the kubeconfig manager at the changed
// settings before the explorer refreshes.
func (env *env) onConfigChange(ch appconfig.Change) {
	if ch.Config != nil {
		cfg := *ch.Config
		if env.opts != nil {
			env.opts.override(&cfg)
		}
		ch.Config = &cfg
		env.config = &cfg

		if ch.Affects("explorer.kubeconfig") || ch.Affects("kubectl") {
			if r, ok := env.kubectl.(*kubectl.ExecRunner); ok {
				r.Reconfigure(cfg.ToolPath(runtime.GOOS, "kubectl"), cfg.Explorer.Kubeconfig, cfg.Kubectl.UseWSL)
			}
			if env.kubeconfig != nil {
				env.kubeconfig.SetPath(cfg.Explorer.Kubeconfig)
			}
			env.log.Info("kubectl reconfigured", "kubeconfig", cfg.Explorer.Kubeconfig)
		}
	}
	env.explorer.OnConfigChange(ch)
}
