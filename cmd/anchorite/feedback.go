package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var feedbackFlags struct {
	incorrect bool
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback <url>",
	Short: "Report whether a verdict was right",
	Long: `Report feedback on the most recent verdict for a URL.

Feedback attaches a reward to the stored decision and feeds the classifier
training loop. By default the verdict is confirmed as correct; pass
--incorrect to flag a wrong one.

Examples:
  anchorite feedback https://example.com/article
  anchorite feedback https://example.com/article --incorrect`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newControlClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"url":     args[0],
			"correct": !feedbackFlags.incorrect,
		}
		if err := client.post("/v1/feedback", req, nil); err != nil {
			return err
		}
		fmt.Println("✓ Feedback recorded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.Flags().BoolVar(&feedbackFlags.incorrect, "incorrect", false, "flag the verdict as wrong")
}
