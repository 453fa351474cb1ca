package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fiabamia/fiaba/internal/wizard"
)

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Start or resume the interactive book wizard",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runWizard()
		},
	}
}

func runWizard() {
	if !isTTY() {
		fmt.Fprintln(os.Stderr, "The wizard needs an interactive terminal. Try `fiaba status` instead.")
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		exitOnError(err)
	}
	defer store.Close()

	client := newClient(store)
	model := wizard.NewModel(wizard.NewFlow(store), wizard.NewActions(client, store), store)

	if _, err := tea.NewProgram(model).Run(); err != nil {
		exitOnError(err)
	}
}
