package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage focus sessions",
	Long: `Start, end and inspect focus sessions on a running daemon.

A session locks enforcement on for its whole duration. The only way out
early is the unlock secret, which is printed in three fragments at start:
store them in separate inconvenient places.`,
}

var sessionStartFlags struct {
	minutes int
	task    string
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a focus session",
	Long: `Start a focus session of the given duration.

The unlock secret is printed once, split into three fragments, and is not
recoverable afterwards: the daemon only keeps a hash.

Examples:
  anchorite session start --minutes 90 --task "thesis draft"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionStartFlags.minutes <= 0 {
			return fmt.Errorf("--minutes must be positive")
		}
		client, err := newControlClient()
		if err != nil {
			return err
		}

		var resp struct {
			Secret    string    `json:"secret"`
			Fragments []string  `json:"fragments"`
			Task      string    `json:"task"`
			EndsAt    time.Time `json:"ends_at"`
		}
		req := map[string]any{
			"duration_minutes": sessionStartFlags.minutes,
			"task":             sessionStartFlags.task,
		}
		if err := client.post("/v1/session/start", req, &resp); err != nil {
			return err
		}

		fmt.Printf("✓ Session started until %s\n", resp.EndsAt.Local().Format(time.Kitchen))
		if resp.Task != "" {
			fmt.Printf("  Task: %s\n", resp.Task)
		}
		fmt.Println("\nUnlock secret fragments (shown once, store them separately):")
		for i, fragment := range resp.Fragments {
			fmt.Printf("  %d: %s\n", i+1, fragment)
		}
		return nil
	},
}

var sessionEndFlags struct {
	secret string
}

var sessionEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active session early",
	Long: `End the active focus session before its scheduled expiry.

Requires the full unlock secret, reassembled by concatenating the three
fragments printed at session start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionEndFlags.secret == "" {
			return fmt.Errorf("--secret is required")
		}
		client, err := newControlClient()
		if err != nil {
			return err
		}

		var resp struct {
			Unlocked bool `json:"unlocked"`
		}
		req := map[string]string{"secret": sessionEndFlags.secret}
		if err := client.post("/v1/session/end", req, &resp); err != nil {
			return err
		}
		if !resp.Unlocked {
			return fmt.Errorf("secret did not match")
		}
		fmt.Println("✓ Session unlocked")
		return nil
	},
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newControlClient()
		if err != nil {
			return err
		}

		var info struct {
			Active    bool          `json:"active"`
			Status    string        `json:"status"`
			Task      string        `json:"task"`
			EndsAt    time.Time     `json:"ends_at"`
			Remaining time.Duration `json:"remaining"`
		}
		if err := client.get("/v1/session/status", &info); err != nil {
			return err
		}

		if !info.Active {
			fmt.Println("No active session")
			return nil
		}
		fmt.Printf("Status:    %s\n", info.Status)
		if info.Task != "" {
			fmt.Printf("Task:      %s\n", info.Task)
		}
		fmt.Printf("Ends at:   %s\n", info.EndsAt.Local().Format(time.RFC1123))
		fmt.Printf("Remaining: %s\n", info.Remaining.Round(time.Second))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionEndCmd)
	sessionCmd.AddCommand(sessionStatusCmd)

	sessionStartCmd.Flags().IntVarP(&sessionStartFlags.minutes, "minutes", "m", 60, "session duration in minutes")
	sessionStartCmd.Flags().StringVarP(&sessionStartFlags.task, "task", "t", "", "what this session is for")

	sessionEndCmd.Flags().StringVarP(&sessionEndFlags.secret, "secret", "s", "", "reassembled unlock secret")
}
