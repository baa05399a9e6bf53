package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"anchorite-hq/anchorite/pkg/mission"
)

var missionCmd = &cobra.Command{
	Use:   "mission",
	Short: "Work with the mission document",
}

var missionValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a mission document",
	Long: `Validate a mission YAML document without touching the daemon.

With no argument the configured mission path is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := missionPath(args)
		if err != nil {
			return err
		}
		m, err := mission.Load(path)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s is valid (%d allowed domains, %d keywords)\n",
			path, len(m.AllowedDomains), len(m.AllowedKeywords))
		return nil
	},
}

var missionShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print a mission document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := missionPath(args)
		if err != nil {
			return err
		}
		m, err := mission.Load(path)
		if err != nil {
			return err
		}
		fmt.Printf("Mission: %s\n", m.Text)
		if len(m.AllowedDomains) > 0 {
			fmt.Println("Allowed domains:")
			for _, d := range m.AllowedDomains {
				fmt.Printf("  - %s\n", d)
			}
		}
		if len(m.AllowedKeywords) > 0 {
			fmt.Println("Allowed keywords:")
			for _, k := range m.AllowedKeywords {
				fmt.Printf("  - %s\n", k)
			}
		}
		return nil
	},
}

// missionPath resolves the document path from the argument or the config.
func missionPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Mission.Path, nil
}

func init() {
	rootCmd.AddCommand(missionCmd)
	missionCmd.AddCommand(missionValidateCmd)
	missionCmd.AddCommand(missionShowCmd)
}
