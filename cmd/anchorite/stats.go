package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show decision statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newControlClient()
		if err != nil {
			return err
		}

		var snap struct {
			Total           int64 `json:"total"`
			Allowed         int64 `json:"allowed"`
			Blocked         int64 `json:"blocked"`
			CacheHits       int64 `json:"cache_hits"`
			FastPath        int64 `json:"fast_path"`
			SlowPath        int64 `json:"slow_path"`
			FeedbackTotal   int64 `json:"feedback_total"`
			FeedbackCorrect int64 `json:"feedback_correct"`
		}
		if err := client.get("/v1/stats", &snap); err != nil {
			return err
		}

		fmt.Printf("Decisions:  %d (%d allowed, %d blocked)\n", snap.Total, snap.Allowed, snap.Blocked)
		fmt.Printf("Paths:      %d fast, %d slow, %d cache hits\n", snap.FastPath, snap.SlowPath, snap.CacheHits)
		if snap.FeedbackTotal > 0 {
			accuracy := float64(snap.FeedbackCorrect) / float64(snap.FeedbackTotal) * 100
			fmt.Printf("Feedback:   %d events, %.1f%% confirmed correct\n", snap.FeedbackTotal, accuracy)
		} else {
			fmt.Println("Feedback:   none yet")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
