package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/sttts/kexplorer/internal/api/clusterexplorer"
	"github.com/sttts/kexplorer/pkg/api/clusterexplorer/v1x1"
	"github.com/sttts/kexplorer/pkg/kubectl"
)

func newShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <target>",
		Short: "Show the node a command target refers to",
		Long: `Resolve a command target and print it. The target is a node document in
JSON or YAML, as produced for v1 or v1.1 extensions; "-" reads it from stdin.
Resources are fetched from the cluster.`,
		Example: `  kexplorer show '{"nodeType":"resource","namespace":"default","kind":{"manifestKind":"Pod","abbreviation":"pod"},"name":"web-1"}'
  kexplorer show - < node.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := []byte(args[0])
			if args[0] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read target: %w", err)
				}
				target = data
			}

			env, err := opts.setup()
			if err != nil {
				return err
			}
			content, err := showTarget(cmd.Context(), env, target)
			if err != nil {
				return err
			}
			return highlight(cmd.OutOrStdout(), content, env.config.Viewer.Theme, opts.noColor)
		},
	}
}

// showTarget returns the YAML to display for target.
func showTarget(ctx context.Context, env *env, target []byte) (string, error) {
	n := clusterexplorer.V1x1(env.explorer).ResolveCommandTarget(target)
	if n == nil {
		return "", fmt.Errorf("target is not a cluster explorer node")
	}

	r, ok := n.(v1x1.ResourceNode)
	if !ok {
		data, err := yaml.Marshal(v1x1.ToShape(n))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	what := r.KindName
	if what == "" {
		what = r.Kind.ManifestKind + "/" + r.Name
	}
	command := "get " + what
	if r.Namespace != nil && *r.Namespace != "" {
		command += " --namespace " + *r.Namespace
	}
	res, err := kubectl.Succeeded(ctx, env.kubectl, command+" -o yaml")
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}
