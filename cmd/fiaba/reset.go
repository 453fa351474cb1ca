package main

import (
	"github.com/spf13/cobra"

	"github.com/fiabamia/fiaba/internal/render"
)

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the current book session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store, err := openStore()
			if err != nil {
				exitOnError(err)
			}
			defer store.Close()

			if err := store.Clear(); err != nil {
				exitOnError(err)
			}
			render.Stdout().Println("Session cleared. Run `fiaba` to start a new book.")
		},
	}
}
