package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/truemediaorg/postanalyzer/render"
	"github.com/truemediaorg/postanalyzer/twitter"
)

var (
	validateRemote bool
	validateOutput string
)

func init() {
	validateCmd.Flags().BoolVar(&validateRemote, "remote", false, "ask the analysis API instead of checking locally")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", string(render.FormatText), "output format: text, json or yaml")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:          "validate <url>",
	Short:        "Checks whether a URL points at a post on a supported platform",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(validateOutput)
		if err != nil {
			return err
		}

		ctx := context.Background()
		cfg, client := setup(ctx, "")

		var valid bool
		if validateRemote {
			outcome, err := client.ValidateURLRemote(ctx, args[0])
			if err != nil {
				return err
			}
			valid = outcome.IsValid
			if format != render.FormatText {
				return render.Encode(os.Stdout, format, outcome)
			}
		} else {
			valid = twitter.NewURLValidator(cfg.Validation.Domains).IsValid(args[0])
			if format != render.FormatText {
				return render.Encode(os.Stdout, format, map[string]interface{}{"url": args[0], "is_valid": valid})
			}
		}

		if valid {
			fmt.Fprintf(os.Stdout, "%s is a valid post URL\n", args[0])
			return nil
		}
		return fmt.Errorf("%s is not a valid post URL", args[0])
	},
}
