package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/config"
	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/output"
	"github.com/rgehrsitz/firecalc/internal/urlstate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share [input-file|-]",
		Short: "Print a shareable link that reproduces a scenario",
		Long: `Encode a scenario's inputs into a share link.

The base URL defaults to server.public_url from the service settings
(FIRECALC_SERVER_PUBLIC_URL overrides it).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioName, _ := cmd.Flags().GetString("scenario")
			baseURL, _ := cmd.Flags().GetString("base-url")
			queryOnly, _ := cmd.Flags().GetBool("query")

			scenario, err := loadScenario(cmd, args[0], scenarioName)
			if err != nil {
				return err
			}

			if queryOnly {
				fmt.Fprintln(cmd.OutOrStdout(), urlstate.Encode(scenario.Inputs))
				return nil
			}
			if baseURL == "" {
				settings, err := config.LoadSettings("")
				if err != nil {
					return err
				}
				baseURL = settings.Server.PublicURL
			}
			link, err := urlstate.ShareURL(baseURL, scenario.Inputs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
	cmd.Flags().StringP("scenario", "s", "", "Scenario name (default: first scenario in the file)")
	cmd.Flags().String("base-url", "", "Base URL for the link")
	cmd.Flags().Bool("query", false, "Print only the query string")
	return cmd
}

func decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [query-or-url]",
		Short: "Turn a share link back into a scenario file",
		Long: `Decode a share link or its query string over a preset's inputs.

Missing or malformed parameters keep the preset's values. The result is
printed as a scenario file, or simulated with --calculate.

Examples:
  firecalc decode 'age=35&initial=100000&spend=5000'
  firecalc decode 'http://localhost:8080/?age=35&swr=3.5' --calculate --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presetName, _ := cmd.Flags().GetString("preset")
			name, _ := cmd.Flags().GetString("name")
			calculate, _ := cmd.Flags().GetBool("calculate")
			format, _ := cmd.Flags().GetString("format")

			preset, err := domain.GetPreset(presetName)
			if err != nil {
				return err
			}
			scenario := domain.Scenario{
				Name:   name,
				Inputs: urlstate.DecodeString(queryPart(args[0]), preset.Inputs),
			}
			if err := config.NewInputParser().ValidateInputs(&scenario.Inputs); err != nil {
				return fmt.Errorf("decoded inputs are invalid: %w", err)
			}

			if calculate {
				report, err := newEngine(false).RunScenario(cmd.Context(), &scenario)
				if err != nil {
					return err
				}
				return output.GenerateReport(cmd.OutOrStdout(), report, format)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(domain.Configuration{Scenarios: []domain.Scenario{scenario}}); err != nil {
				return fmt.Errorf("failed to encode scenario: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringP("preset", "p", domain.DefaultPresetName, "Preset supplying values the link omits")
	cmd.Flags().String("name", "Shared", "Scenario name for the decoded inputs")
	cmd.Flags().Bool("calculate", false, "Simulate the decoded inputs instead of printing them")
	cmd.Flags().StringP("format", "f", "console", "Report format used with --calculate")
	return cmd
}

// queryPart strips everything up to and including '?' from a full link.
func queryPart(s string) string {
	if _, query, ok := strings.Cut(s, "?"); ok {
		return query
	}
	return s
}
