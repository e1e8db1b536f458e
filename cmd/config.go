package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long: `Shows the effective configuration, including environment overrides,
gets a single key, or writes a key to the config file.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	keys := config.Keys()
	if outputFormat() == output.FormatJSON {
		m := make(map[string]string, len(keys)+1)
		for _, key := range keys {
			m[key], _ = cfg.Get(key)
		}
		m["path"] = cfg.Path()
		return output.JSON(os.Stdout, m)
	}

	fmt.Fprintf(os.Stdout, "%-20s %s\n", "path", cfg.Path())
	for _, key := range keys {
		val, _ := cfg.Get(key)
		fmt.Fprintf(os.Stdout, "%-20s %s\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	val, err := cfg.Get(args[0])
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, val)
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	// Edit the file itself so environment overrides are not persisted.
	cfg, err := config.LoadFile(flagConfig)
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"key": key, "value": value})
	}
	output.Messagef(os.Stdout, "Set %s = %s", key, value)
	return nil
}

func formatConfigValue(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
