package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/truemediaorg/postanalyzer/render"
	"github.com/truemediaorg/postanalyzer/twitter"
)

var postOutput string

func init() {
	postCmd.Flags().StringVarP(&postOutput, "output", "o", string(render.FormatText), "output format: text, json or yaml")
	rootCmd.AddCommand(postCmd)
}

var postCmd = &cobra.Command{
	Use:          "post <url-or-id>",
	Short:        "Fetches the content and engagement of a post without analyzing it",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(postOutput)
		if err != nil {
			return err
		}

		postID := args[0]
		if _, id, err := twitter.DeconstructTweetURL(postID); err == nil {
			postID = id
		}

		ctx := context.Background()
		_, client := setup(ctx, "")

		info, err := client.GetPost(ctx, postID)
		if err != nil {
			return err
		}

		if info.URL == "" && info.Author != "" {
			info.URL = twitter.ConstructTweetURL(info.Author, postID)
		}

		if format != render.FormatText {
			return render.Encode(os.Stdout, format, info)
		}
		render.Post(os.Stdout, info.PostSnapshot)
		return nil
	},
}
