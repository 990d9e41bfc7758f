package cmd

import (
	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configResolved bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged configuration",
	Long: `Print the configuration obtained by merging every config file left to right.

With --resolved, print the typed settings after defaults and NDRIFT_*
environment overrides are applied.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().BoolVar(&configResolved, "resolved", false, "Print resolved settings instead of the raw merge")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	var doc any = settings
	if !configResolved {
		raw, err := config.LoadConfig(resolveConfigPaths()...)
		if err != nil {
			return err
		}
		doc = raw
	}

	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}
