package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dcasim/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage run configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write a default configuration file (format by extension)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if err := cfg.SaveToFile(args[0]); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", args[0])
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadFromFile(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s: OK\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)
}
