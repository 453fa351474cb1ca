package main

import (
	"github.com/spf13/cobra"

	"github.com/fiabamia/fiaba/internal/render"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current book session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store, err := openStore()
			if err != nil {
				exitOnError(err)
			}
			defer store.Close()

			sess, err := store.Current()
			if err != nil {
				exitOnError(err)
			}
			render.Stdout().Println("%s", output().Status(sess))
		},
	}
}
