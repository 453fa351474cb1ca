package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fiabamia/fiaba/internal/gateway"
	"github.com/fiabamia/fiaba/internal/render"
)

func booksCmd() *cobra.Command {
	var token string
	var email string

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List your books or request a magic link",
		Long: `With --token, list every book tied to the magic link.
With --email, send a fresh magic link to that address.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if (token == "") == (email == "") {
				exitOnError(fmt.Errorf("pass exactly one of --token or --email"))
			}

			store, err := openStore()
			if err != nil {
				exitOnError(err)
			}
			defer store.Close()

			client := newClient(store)

			if email != "" {
				if err := client.MagicLink().Send(cmd.Context(), email); err != nil {
					exitOnError(err)
				}
				render.Stdout().Println("Magic link sent to %s. Check your inbox.", email)
				return
			}

			resolver := gateway.NewResolver(client.WithToken(token), store)
			cards, err := resolver.ListBooks(cmd.Context(), token)
			if err != nil {
				exitOnError(err)
			}
			fmt.Print(output().Cards(cards))
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Magic-link token from the email")
	cmd.Flags().StringVar(&email, "email", "", "Send a magic link to this address")
	return cmd
}
