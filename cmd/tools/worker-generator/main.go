// cmd/tools/worker-generator/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"insight-workers/pkg/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		registryPath string
		outputDir    string
		force        bool
	)
	cmd := &cobra.Command{
		Use:   "worker-generator <activity-id|task-type>",
		Short: "Scaffold a job worker package from the activity registry",
		Example: `  worker-generator bi.report.build
  worker-generator send-report-notification --output ./internal/workers --force`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("load registry %s: %w", registryPath, err)
			}
			activity, ok := lookup(reg, args[0])
			if !ok {
				return fmt.Errorf("activity %q not found in %s", args[0], registryPath)
			}

			scaffold, err := NewScaffold(*activity)
			if err != nil {
				return err
			}
			dir, err := scaffold.Write(outputDir, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ Worker scaffold generated at %s\n\n", dir)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  1. Implement Execute in handler.go")
			fmt.Fprintln(out, "  2. Register the handler in cmd/worker-manager/main.go")
			fmt.Fprintf(out, "  3. Add a workers.%s entry to configs/config.yaml\n", scaffold.TaskType)
			return nil
		},
	}
	cmd.Flags().StringVar(&registryPath, "registry", "configs/activity-registry.json", "path to the activity registry")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "internal/workers", "root directory for worker packages")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing package")
	return cmd
}

// lookup finds an activity by ID or task type.
func lookup(reg *registry.ActivityRegistry, key string) (*registry.Activity, bool) {
	for i := range reg.Activities {
		if reg.Activities[i].ID == key {
			return &reg.Activities[i], true
		}
	}
	return reg.Find(key)
}
