package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cguide/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default coding-guide.toml in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.FileName); err == nil {
			return fmt.Errorf("%s already exists", config.FileName)
		}
		if err := os.WriteFile(config.FileName, []byte(config.DefaultTOML), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", config.FileName, err)
		}
		fmt.Printf("wrote %s\n", config.FileName)
		return nil
	},
}
