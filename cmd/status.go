package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/truemediaorg/postanalyzer/render"
	"github.com/truemediaorg/postanalyzer/status"
)

var statusOutput string

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", string(render.FormatText), "output format: text, json or yaml")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:          "status",
	Short:        "Prints the analysis API health and usage metrics",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(statusOutput)
		if err != nil {
			return err
		}

		ctx := context.Background()
		_, client := setup(ctx, "")

		poller := status.NewPoller(client)
		poller.Activate(ctx)
		snapshot := poller.Snapshot()

		if format != render.FormatText {
			return render.Encode(os.Stdout, format, render.NewStatusDocument(snapshot))
		}
		render.Status(os.Stdout, snapshot)
		return nil
	},
}
