// Command registry-updater maintains configs/activity-registry.json, the
// list of job types and input schemas the worker manager serves.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

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
	var path string
	root := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Add, update and validate activity registry entries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&path, "path", "configs/activity-registry.json", "path to the registry file")
	root.AddCommand(newAddCmd(&path), newUpdateCmd(&path), newValidateCmd(&path))
	return root
}

func newAddCmd(path *string) *cobra.Command {
	a := registry.Activity{}
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a new activity",
		Example: `  registry-updater add --id bi.data.fetch --display-name "Fetch Board Data" --category data-access --task-type fetch-board-data`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if errors.Is(err, fs.ErrNotExist) {
				reg = &registry.ActivityRegistry{Version: "1.0.0"}
			} else if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}

			if a.InputSchema == nil {
				a.InputSchema = map[string]interface{}{"type": "object"}
			}
			if a.OutputSchema == nil {
				a.OutputSchema = map[string]interface{}{"type": "object"}
			}
			a.ErrorCodes, a.Tags = []string{}, []string{}
			if err := reg.Add(a); err != nil {
				return err
			}
			if err := reg.Save(*path, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", a.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.ID, "id", "", "activity ID, domain.subdomain.action")
	f.StringVar(&a.DisplayName, "display-name", "", "display name")
	f.StringVar(&a.Description, "description", "", "description")
	f.StringVar(&a.Category, "category", "", "category, e.g. bi-conversation")
	f.StringVar(&a.TaskType, "task-type", "", "Zeebe job type")
	f.StringVar(&a.Version, "version", "1.0.0", "activity version")
	f.StringVar(&a.ImplementationStatus, "status", registry.StatusPlanned, "planned, in-progress, completed or verified")
	f.StringVar(&a.Timeout, "timeout", "30s", "job timeout")
	f.IntVar(&a.Retries, "retries", 3, "job retries")
	for _, name := range []string{"id", "display-name", "category", "task-type"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUpdateCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:     "update <id> <field> <value>",
		Short:   "Update one field of an activity",
		Example: `  registry-updater update bi.report.build status completed`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Update(args[0], args[1], args[2]); err != nil {
				return err
			}
			if err := reg.Save(*path, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", args[0], args[1], args[2])
			return nil
		},
	}
}

func newValidateCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check IDs, task types, timeouts and statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			problems := reg.Validate()
			for _, p := range problems {
				fmt.Fprintln(cmd.ErrOrStderr(), "  -", p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("registry validation failed with %d problem(s)", len(problems))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
}
