package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/manybody/secondq/config"
	"github.com/manybody/secondq/errors"
)

// SpacesCmd represents the spaces command
var SpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Show configured index spaces",
	Long: `Display the index spaces the engine will use: statistics, occupation
class, index stems, and composite membership. Without configured spaces
the built-in particle-hole set is shown.

Examples:
  secondq spaces
  secondq spaces --format json`,
	RunE: runSpaces,
}

var spacesFormat string

func init() {
	SpacesCmd.Flags().StringVar(&spacesFormat, "format", "table", "Output format: table, json, toml, yaml")
}

func runSpaces(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	spaces := cfg.Spaces
	if len(spaces) == 0 {
		spaces = defaultSpaces()
	}
	// Validate before displaying so a broken config fails loudly.
	if _, err := config.BuildRegistry(spaces); err != nil {
		return err
	}

	switch spacesFormat {
	case "table":
		table := pterm.TableData{{"Label", "Statistics", "Occupation", "Stems", "Members"}}
		for _, sc := range spaces {
			table = append(table, []string{
				sc.Label,
				sc.Statistics,
				sc.Occupation,
				strings.Join(sc.Stems, " "),
				strings.Join(sc.Elementary, " "),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	case "json":
		data, err := json.MarshalIndent(spaces, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal spaces")
		}
		fmt.Println(string(data))
	case "toml":
		data, err := toml.Marshal(map[string]any{"spaces": spaces})
		if err != nil {
			return errors.Wrap(err, "marshal spaces")
		}
		fmt.Print(string(data))
	case "yaml":
		data, err := yaml.Marshal(spaces)
		if err != nil {
			return errors.Wrap(err, "marshal spaces")
		}
		fmt.Print(string(data))
	default:
		return errors.Configurationf("unsupported format: %s (supported: table, json, toml, yaml)", spacesFormat)
	}
	return nil
}
