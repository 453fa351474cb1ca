package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fiabamia/fiaba/internal/gateway"
	"github.com/fiabamia/fiaba/internal/wizard"
)

func accessCmd() *cobra.Command {
	var token string
	var action string

	cmd := &cobra.Command{
		Use:   "access",
		Short: "Open an emailed single-book link",
		Long: `Open the link from a Fiaba email by its token.

The token decides which book it is for; the action defaults to whatever
the link was issued for (preview, pay or download).`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			requested, err := gateway.ParseAction(action)
			if err != nil {
				exitOnError(err)
			}

			store, err := openStore()
			if err != nil {
				exitOnError(err)
			}
			defer store.Close()

			client := newClient(store).WithToken(token)
			resolver := gateway.NewResolver(client, store)

			out, err := resolver.ResolveAccess(cmd.Context(), token, requested)
			if err != nil {
				exitOnError(err)
			}

			actions := wizard.NewActions(client, store)
			switch out.Action {
			case gateway.ActionDownload:
				// Straight to the file, no preview rendering.
				openURL(out.RedirectURL)
			case gateway.ActionPay:
				checkoutURL, err := actions.StartCheckout(cmd.Context(), out.BookID, "", "")
				if err != nil {
					exitOnError(err)
				}
				openURL(checkoutURL)
			default:
				res, err := actions.LoadPreview(cmd.Context(), out.BookID)
				if err != nil {
					exitOnError(err)
				}
				fmt.Print(output().Preview(res))
			}
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token from the emailed link")
	cmd.Flags().StringVar(&action, "action", "", "Action override: preview, pay or download")
	cmd.MarkFlagRequired("token")
	return cmd
}
