package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fiabamia/fiaba/internal/api"
	"github.com/fiabamia/fiaba/internal/config"
	"github.com/fiabamia/fiaba/internal/poller"
)

func generateCmd() *cobra.Command {
	var bookID string
	var open bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the full book and follow its progress",
		Long: `Trigger full generation for the session's book (or --book-id) and
poll its status until it completes. Safe to re-run: generation already
in flight is picked up, not restarted.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store, err := openStore()
			if err != nil {
				exitOnError(err)
			}
			defer store.Close()

			if bookID == "" {
				sess, err := store.Current()
				if err != nil {
					exitOnError(err)
				}
				if sess == nil || sess.BookID == "" {
					exitOnError(fmt.Errorf("no book yet: finish the wizard first, or pass --book-id"))
				}
				bookID = sess.BookID
			}

			client := newClient(store)
			books := client.Books()

			updates := make(chan poller.Update, 16)
			runner := poller.NewRunner(books, bookID, config.Get().PollInterval, func(u poller.Update) {
				updates <- u
			})
			defer runner.Stop()

			if err := runner.Start(cmd.Context()); err != nil {
				exitOnError(err)
			}

			r := output()
			for u := range updates {
				fmt.Printf("\r%-70s", r.Progress(u))
				// A FAILED entry status is re-triggered by Start; only a
				// settled terminal state ends the loop.
				if u.Status.Terminal() && u.Err == nil && runner.Status().Terminal() {
					fmt.Println()
					break
				}
			}

			switch runner.Status() {
			case api.StatusCompleted:
				link, err := books.DownloadLink(cmd.Context(), bookID)
				if err != nil {
					exitOnError(err)
				}
				if open {
					openURL(link)
				} else {
					fmt.Printf("Your book is ready:\n  %s\nThe link is short-lived; re-run `fiaba generate` for a fresh one.\n", link)
				}
			case api.StatusFailed:
				fmt.Fprintln(os.Stderr, "Generation failed. Run `fiaba generate` again to retry.")
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&bookID, "book-id", "", "Book to generate (defaults to the session's book)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the finished book in your browser")
	return cmd
}
