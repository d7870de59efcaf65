package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-clock/internal/config"
	"github.com/smokyabdulrahman/prayer-clock/internal/display"
	"github.com/smokyabdulrahman/prayer-clock/internal/method"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  prayer-clock config set city Riyadh\n  prayer-clock config set country \"Saudi Arabia\"\n  prayer-clock config set method 4\n  prayer-clock config set locale en\n  prayer-clock config set format \"{{.Name}} {{.Countdown}}\"",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, cfg)
	}

	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		if shown == "" {
			shown = "(not set)"
		}
		// Add descriptive labels for the numeric settings.
		if val != "" {
			switch key {
			case "method":
				shown = formatMethodValue(val)
			case "school":
				shown = formatSchoolValue(val)
			case "latitude_adjustment":
				shown = formatAdjustmentValue(val)
			}
		}
		fmt.Fprintf(out, "  %-20s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatMethodValue adds the method name to the numeric value.
func formatMethodValue(val string) string {
	id, err := strconv.Atoi(val)
	if err != nil {
		return val
	}
	if m, ok := method.Lookup(id); ok {
		return fmt.Sprintf("%s (%s)", val, m.Name)
	}
	return val
}

// formatSchoolValue adds the school name to the numeric value.
func formatSchoolValue(val string) string {
	switch val {
	case "0":
		return "0 (Shafi)"
	case "1":
		return "1 (Hanafi)"
	default:
		return val
	}
}

func formatAdjustmentValue(val string) string {
	n, err := strconv.Atoi(val)
	if err != nil || !method.LatitudeAdjustment(n).Valid() {
		return val
	}
	return fmt.Sprintf("%s (%s)", val, method.LatitudeAdjustment(n))
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the table of all supported Al Adhan API calculation methods.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if FlagJSON {
				return writeJSON(out, method.Catalogue)
			}

			fmt.Fprintln(out, "Supported calculation methods:")
			fmt.Fprintln(out)
			tbl := display.NewTable([]string{"ID", "Name"})
			for _, m := range method.Catalogue {
				tbl.AddRow([]string{strconv.Itoa(m.ID), m.Name})
			}
			fmt.Fprint(out, tbl.Render())
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Use --method <ID> to select a calculation method.")
			fmt.Fprintln(out, "If omitted, one is suggested for your region (see 'resolve').")
			return nil
		},
	}
}
