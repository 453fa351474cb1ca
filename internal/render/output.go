package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/fiabamia/fiaba/internal/api"
	"github.com/fiabamia/fiaba/internal/gateway"
	"github.com/fiabamia/fiaba/internal/poller"
	"github.com/fiabamia/fiaba/internal/session"
	"github.com/fiabamia/fiaba/internal/wizard"
)

// Renderer handles domain output formatting.
type Renderer struct {
	pretty bool
}

// New creates a new renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Cards formats the owned-books listing.
func (r *Renderer) Cards(cards []gateway.BookCard) string {
	var sb strings.Builder
	w := NewWriter(&sb)

	if len(cards) == 0 {
		w.Empty("No books yet. Run `fiaba create` to start one.")
		return sb.String()
	}

	if r.pretty {
		w.Header(color.CyanString("I Miei Libri"))
	}
	for _, c := range cards {
		r.formatCard(w, c)
	}
	return sb.String()
}

func (r *Renderer) formatCard(w *Writer, c gateway.BookCard) {
	title := c.Title
	if title == "" {
		title = "(untitled)"
	}
	title = Truncate(title, 44)

	badge := string(c.Badge)
	if r.pretty {
		switch c.Badge {
		case gateway.BadgeDownloadReady:
			badge = color.GreenString(badge)
		case gateway.BadgeFailed:
			badge = color.RedString(badge)
		case gateway.BadgeGenerating, gateway.BadgeProcessing:
			badge = color.YellowString(badge)
		default:
			badge = color.HiBlackString(badge)
		}
	}

	w.Println("%-14s %s", badge, title)
	if c.Action != "" {
		w.Nested("fiaba access --token <your-token> --action %s", c.Action)
	}
}

// Preview formats a loaded book preview.
func (r *Renderer) Preview(res *wizard.PreviewResult) string {
	var sb strings.Builder
	w := NewWriter(&sb)

	title := res.Preview.Title
	if r.pretty {
		title = color.CyanString(title)
	}
	w.Println("%s", title)
	if res.Preview.Subtitle != "" {
		w.Println("%s", res.Preview.Subtitle)
	}
	w.Item("A story starring %s", res.Protagonist)
	w.Line()

	for _, page := range res.Preview.PreviewPages {
		if page.Title != "" {
			w.Println("%s", page.Title)
		}
		w.Println("%s", page.Content)
		w.Line()
	}
	return sb.String()
}

// Progress formats one poller update as a single status line.
func (r *Renderer) Progress(u poller.Update) string {
	bar := progressBar(u.Progress)
	line := fmt.Sprintf("%s %3d%%  %s", bar, u.Progress, u.Status)
	if u.Err != nil {
		retry := "retrying"
		if r.pretty {
			retry = color.YellowString(retry)
		}
		line += fmt.Sprintf("  (%s: %v)", retry, u.Err)
	}
	return line
}

func progressBar(pct int) string {
	const width = 20
	filled := pct * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// Status formats the current session summary.
func (r *Renderer) Status(sess *session.Session) string {
	return wizard.Summary(sess)
}

// Failure formats an error with a recovery hint matching its kind.
// Distinguishes an expired credential (get a fresh link) from a network
// failure (retry the same command).
func (r *Renderer) Failure(err error) string {
	msg := err.Error()
	hint := ""
	switch {
	case api.IsTokenInvalid(err):
		msg = "This link has expired or is not valid."
		hint = "Request a fresh link with `fiaba books --email <your-email>`."
	case api.IsTransport(err):
		msg = "Could not reach the Fiaba service: " + msg
		hint = "Check your connection and try the same command again."
	}
	if r.pretty {
		msg = color.RedString(msg)
	}
	if hint != "" {
		return msg + "\n" + hint
	}
	return msg
}
