// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"field-verification/internal/common/validation"
	"field-verification/pkg/registry"
)

var registryPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Maintain the activity registry of the verification workers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&registryPath, "path", "pkg/registry/activities.json", "Path to registry file")

	rootCmd.AddCommand(createAddCmd())
	rootCmd.AddCommand(createUpdateCmd())
	rootCmd.AddCommand(createValidateCmd())
	return rootCmd
}

func createAddCmd() *cobra.Command {
	var activity registry.Activity

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new activity to the registry",
		Example: `  registry-updater add --id lookup-vehicle --displayName "Lookup Vehicle" \
    --description "Fetches the RC record for a typed vehicle number" --category verification`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if activity.TaskType == "" {
				activity.TaskType = activity.ID
			}
			activity.InputSchema = map[string]interface{}{"type": "object"}
			activity.OutputSchema = map[string]interface{}{"type": "object"}
			activity.ErrorCodes = []string{}
			activity.Workflows = []string{}
			activity.Tags = []string{}

			if err := addActivity(registryPath, &activity, time.Now()); err != nil {
				return fmt.Errorf("add activity: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", activity.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&activity.ID, "id", "", "Activity ID (e.g., lookup-vehicle)")
	cmd.Flags().StringVar(&activity.DisplayName, "displayName", "", "Display name")
	cmd.Flags().StringVar(&activity.Description, "description", "", "Description")
	cmd.Flags().StringVar(&activity.Category, "category", "verification", "Category")
	cmd.Flags().StringVar(&activity.TaskType, "taskType", "", "Zeebe task type, defaults to the id")
	cmd.Flags().StringVar(&activity.Version, "version", "1.0.0", "Version")
	cmd.Flags().StringVar(&activity.ImplementationStatus, "status", "planned", "planned, in-progress, completed or verified")
	cmd.Flags().StringVar(&activity.Timeout, "timeout", "10s", "Job timeout")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("displayName")
	cmd.MarkFlagRequired("description")
	return cmd
}

func createUpdateCmd() *cobra.Command {
	var id, field, value string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a field of an existing activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := updateActivity(registryPath, id, field, value, time.Now()); err != nil {
				return fmt.Errorf("update activity: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Activity ID to update")
	cmd.Flags().StringVar(&field, "field", "", "Field to update (status, version, displayName, description, category, taskType, timeout, retries)")
	cmd.Flags().StringVar(&value, "value", "", "New value for the field")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("field")
	cmd.MarkFlagRequired("value")
	return cmd
}

func createValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the registry file and compile every input schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
			if err := validateRegistry(reg); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
}

func addActivity(path string, activity *registry.Activity, now time.Time) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	}

	for _, existing := range reg.Activities {
		if existing.ID == activity.ID {
			return fmt.Errorf("activity with ID %s already exists", activity.ID)
		}
	}

	reg.Activities = append(reg.Activities, *activity)
	reg.LastUpdated = now.Format(time.RFC3339)
	return saveRegistry(reg, path)
}

func updateActivity(path, id, field, value string, now time.Time) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var target *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			target = &reg.Activities[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		target.ImplementationStatus = value
	case "version":
		target.Version = value
	case "displayName":
		target.DisplayName = value
	case "description":
		target.Description = value
	case "category":
		target.Category = value
	case "taskType":
		target.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		target.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		target.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = now.Format(time.RFC3339)
	return saveRegistry(reg, path)
}

// validateRegistry checks required fields, uniqueness of ids and task types,
// and that every input schema compiles.
func validateRegistry(reg *registry.ActivityRegistry) error {
	if len(reg.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range reg.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
	}

	if _, err := validation.NewSchemaValidator(reg); err != nil {
		return err
	}
	return nil
}

func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
