package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/dataset"
	"github.com/spf13/cobra"
)

var runsInput string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs stored in a results database",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVarP(&runsInput, "input", "i", "", "Results database (defaults to input.path)")
}

func runRuns(cmd *cobra.Command, args []string) error {
	path := runsInput
	if path == "" {
		path = settings.Input.Path
	}
	if path == "" {
		return errNoInput
	}

	if _, err := os.Stat(path); err != nil {
		return err
	}

	store, err := dataset.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tQUERIES\tK")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", r.Name, r.Queries, r.K)
	}
	return tw.Flush()
}
