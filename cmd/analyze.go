package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/truemediaorg/postanalyzer/model"
	"github.com/truemediaorg/postanalyzer/render"
	"github.com/truemediaorg/postanalyzer/status"
	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"
)

var (
	analyzeComments int
	analyzeMode     string
	analyzeOutput   string
)

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeComments, "comments", "c", int(model.DefaultCommentCount), "number of comments to generate (3, 5, 7 or 10)")
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "", "validation mode, lightweight or advanced (overrides VALIDATION_MODE)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", string(render.FormatText), "output format: text, json or yaml")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:          "analyze <url>",
	Short:        "Submits a post for analysis and prints the generated comments",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(analyzeOutput)
		if err != nil {
			return err
		}

		ctx := context.Background()
		cfg, client := setup(ctx, analyzeMode)

		controller := newController(cfg, client, os.Stderr)
		poller := status.NewPoller(client)

		// The status panel loads alongside the submission, like opening the page.
		var g errgroup.Group
		g.Go(func() error {
			poller.Activate(ctx)
			return nil
		})
		g.Go(func() error {
			return controller.Submit(ctx, args[0], analyzeComments)
		})
		err = g.Wait()

		snapshot := controller.Snapshot()
		log.WithFields(log.Fields{
			"state":  snapshot.State,
			"health": poller.Snapshot().HealthLabel(),
		}).Debug("analysis finished")

		if err != nil {
			return err
		}

		if format != render.FormatText {
			return render.Encode(os.Stdout, format, snapshot.Result)
		}
		render.Result(os.Stdout, snapshot.Result)
		return nil
	},
}
