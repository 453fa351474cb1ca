// Package main provides the fiaba CLI entrypoint.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	pretty  = true
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fiaba",
		Short: "Fiaba - personalized storybooks from your terminal",
		Long: `Fiaba creates a personalized storybook about a person or pet you love.

Usage modes:
  fiaba              Start (or resume) the interactive book wizard
  fiaba access       Open an emailed book link (preview, pay or download)
  fiaba books        List your books or request a magic link
  fiaba generate     Generate the full book and follow its progress

Use 'fiaba status' to see where your current book stands.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runWizard()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Pretty print output")

	rootCmd.AddCommand(
		createCmd(),
		accessCmd(),
		booksCmd(),
		generateCmd(),
		statusCmd(),
		resetCmd(),
	)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
