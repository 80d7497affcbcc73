package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/manybody/secondq/config"
	"github.com/manybody/secondq/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage secondq configuration",
	Long: `Display and manage secondq configuration.

Configuration sources (in order of precedence):
1. Environment variables (SECONDQ_* prefix)
2. Project config (./secondq.toml, searched upward)
3. Default values

Examples:
  secondq config show                 # Show current configuration
  secondq config show --format json   # Show configuration as JSON
  secondq config get engine.workers   # Get one value
  secondq config set engine.workers 4 # Persist one value`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a configuration value using dot notation (e.g., engine.workers, archive.path)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set and persist a configuration value",
	Long:  "Set a configuration value and write it to the project config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configShowFormat string

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configSetCmd)
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "toml", "Output format: toml, json, yaml")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	switch configShowFormat {
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "marshal config")
		}
		fmt.Print(string(data))
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal config")
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "marshal config")
		}
		fmt.Print(string(data))
	default:
		return errors.Configurationf("unsupported format: %s (supported: toml, json, yaml)", configShowFormat)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	value, err := configValue(cfg, args[0])
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	if err := setConfigValue(cfg, key, raw); err != nil {
		return err
	}

	if err := config.Save(config.ConfigFileName, cfg); err != nil {
		return errors.Wrap(err, "save configuration")
	}
	pterm.Success.Printf("Set %s = %s\n", key, raw)
	return nil
}

// configValue resolves a dot-notation key against the loaded configuration.
func configValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "engine.max_wick_terms":
		return strconv.Itoa(cfg.Engine.MaxWickTerms), nil
	case "engine.max_canonical_candidates":
		return strconv.Itoa(cfg.Engine.MaxCanonicalCandidates), nil
	case "engine.workers":
		return strconv.Itoa(cfg.Engine.Workers), nil
	case "archive.path":
		return cfg.Archive.Path, nil
	case "log.verbosity":
		return strconv.Itoa(cfg.Log.Verbosity), nil
	case "log.json":
		return strconv.FormatBool(cfg.Log.JSON), nil
	}
	return "", errors.NotFoundf("configuration key %q", key)
}

// setConfigValue applies a dot-notation assignment with type checking.
func setConfigValue(cfg *config.Config, key, raw string) error {
	intVal := func() (int, error) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, errors.Configurationf("%s wants an integer, got %q", key, raw)
		}
		return n, nil
	}

	switch key {
	case "engine.max_wick_terms":
		n, err := intVal()
		if err != nil {
			return err
		}
		cfg.Engine.MaxWickTerms = n
	case "engine.max_canonical_candidates":
		n, err := intVal()
		if err != nil {
			return err
		}
		cfg.Engine.MaxCanonicalCandidates = n
	case "engine.workers":
		n, err := intVal()
		if err != nil {
			return err
		}
		cfg.Engine.Workers = n
	case "archive.path":
		cfg.Archive.Path = raw
	case "log.verbosity":
		n, err := intVal()
		if err != nil {
			return err
		}
		cfg.Log.Verbosity = n
	case "log.json":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.Configurationf("%s wants a boolean, got %q", key, raw)
		}
		cfg.Log.JSON = b
	default:
		return errors.NotFoundf("configuration key %q", key)
	}
	return nil
}
