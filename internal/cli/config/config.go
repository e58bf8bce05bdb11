package config

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/cli/shared"
	cfgpkg "github.com/squadready/squadready/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit settings",
	Long: `Show and edit the squadready settings file.

Settings live in ~/.config/squadready/settings.json unless --config names
another file. SQUADREADY_* environment variables override the file for a
single run and are never written back.`,
	Example: `  # Show effective settings
  squadready config show

  # Turn on nag reminders every 3 seconds
  squadready config set ready_check_nag true
  squadready config set ready_check_nag_interval_seconds 3`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Long:  "Show the effective settings: defaults, then the settings file, then SQUADREADY_* overrides.",
	Args:  shared.ExactArgs(0),
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Args:  shared.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := shared.SettingsPath(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a settings value",
	Long: `Set one settings key in the settings file.

The value is checked against the key's type and range before anything is
written. Run 'squadready config keys' for the list of keys.`,
	Example: `  squadready config set ready_check_volume 60
  squadready config set audio_output_device ""
  squadready config set log_level debug`,
	Args: shared.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	Args:  shared.ExactArgs(0),
	RunE:  runConfigInit,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settings keys",
	Long:  "Display all settings keys with their types and descriptions.",
	Args:  shared.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		printKeys(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	configCmd.GroupID = shared.GroupConfiguration
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configKeysCmd)

	configShowCmd.Flags().Bool("json", false, "Print settings as JSON")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing settings file")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, path, err := shared.LoadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling settings: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	values, err := settingsValues(settings)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(values))
	for _, key := range cfgpkg.SortedKeys() {
		rows = append(rows, []string{key, values[key]})
	}
	fmt.Fprintf(out, "Settings file: %s\n", path)
	fmt.Fprintln(out, shared.RenderTable([]string{"Key", "Value"}, rows, nil))
	return nil
}

// settingsValues renders each settings field as display text keyed by its
// settings key.
func settingsValues(settings *cfgpkg.Settings) (map[string]string, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("marshaling settings: %w", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	values := make(map[string]string, len(raw))
	for key, v := range raw {
		text := fmt.Sprint(v)
		if s, ok := v.(string); ok && s == "" {
			text = `""`
		}
		values[key] = text
	}
	return values, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if _, err := cfgpkg.GetKeySchema(key); err != nil {
		return shared.NewExitError(shared.ExitInvalidArguments, formatUnknownKeyError(key))
	}
	if _, err := cfgpkg.ValidateValue(key, value); err != nil {
		return shared.NewExitError(shared.ExitInvalidArguments, fmt.Errorf("invalid value for %s: %w", key, err))
	}

	path, err := shared.SettingsPath(cmd)
	if err != nil {
		return err
	}
	if _, err := cfgpkg.SetValue(path, key, value); err != nil {
		return shared.ConfigError(fmt.Errorf("setting %s: %w", key, err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s (%s)\n", key, value, path)
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, err := shared.SettingsPath(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	created, err := cfgpkg.Init(path, force)
	if err != nil {
		return shared.ConfigError(err)
	}
	if !created {
		fmt.Fprintf(cmd.OutOrStdout(), "Settings file already exists: %s (use --force to overwrite)\n", path)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default settings to %s\n", path)
	return nil
}

func printKeys(out io.Writer) {
	rows := make([][]string, 0, len(cfgpkg.KnownKeys))
	for _, key := range cfgpkg.SortedKeys() {
		schema := cfgpkg.KnownKeys[key]
		rows = append(rows, []string{key, typeInfo(schema), schema.Description})
	}
	fmt.Fprintln(out, shared.RenderTable([]string{"Key", "Type", "Description"}, rows, nil))
}

func typeInfo(schema cfgpkg.KeySchema) string {
	info := schema.Type.String()
	if schema.Type == cfgpkg.TypeEnum {
		return fmt.Sprintf("enum (%s)", strings.Join(schema.AllowedValues, ", "))
	}
	switch {
	case schema.Min != nil && schema.Max != nil:
		info += fmt.Sprintf(" %g..%g", *schema.Min, *schema.Max)
	case schema.Min != nil:
		info += fmt.Sprintf(" >= %g", *schema.Min)
	}
	return info
}

func formatUnknownKeyError(key string) error {
	return fmt.Errorf("unknown settings key: %q\n\nValid keys:\n  %s",
		key, strings.Join(cfgpkg.SortedKeys(), "\n  "))
}
