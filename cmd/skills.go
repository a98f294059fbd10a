package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the skills offered for assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		for _, s := range cfg.Skills {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}
