package cmd

import "github.com/spf13/cobra"

// playCmd is what the bare `studyquiz` command runs too.
var playCmd = &cobra.Command{
	Use:     "play",
	Aliases: []string{"tui"},
	Short:   "Open the interactive quiz",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApp(cmd)
	},
}
