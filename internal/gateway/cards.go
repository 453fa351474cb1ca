package gateway

import "github.com/fiabamia/fiaba/internal/api"

// StatusBadge is the one-word state shown next to a book in the listing.
type StatusBadge string

const (
	BadgeDownloadReady StatusBadge = "download-ready"
	BadgeProcessing    StatusBadge = "processing"
	BadgePreviewReady  StatusBadge = "preview-available"
	BadgeDraft         StatusBadge = "draft"
	BadgeGenerating    StatusBadge = "generating"
	BadgeFailed        StatusBadge = "failed"
)

// BookCard is one row of the owned-books listing: the book joined with
// the single next action its state allows.
type BookCard struct {
	ID       string
	Title    string
	Subtitle string
	Genre    string
	Occasion string
	Status   api.BookStatus
	Badge    StatusBadge
	Action   Action
	Paid     bool
}

// CardFor projects a book into its card. Pure: the badge and action are
// a function of the book's payment and generation fields alone.
// Precedence: paid books show their delivery state, unpaid books with a
// preview offer it, everything else reflects the generation machine.
func CardFor(b api.OwnedBook) BookCard {
	card := BookCard{
		ID:       b.ID,
		Title:    b.Title,
		Subtitle: b.Subtitle,
		Genre:    b.Genre,
		Occasion: b.Occasion,
		Status:   b.Status,
		Paid:     b.IsPaid,
	}

	switch {
	case b.IsPaid && b.Status == api.StatusCompleted:
		card.Badge = BadgeDownloadReady
		card.Action = ActionDownload
	case b.IsPaid:
		card.Badge = BadgeProcessing
		card.Action = ""
	case b.PreviewGenerated:
		card.Badge = BadgePreviewReady
		card.Action = ActionPreview
	case b.Status == api.StatusDraft:
		card.Badge = BadgeDraft
		card.Action = ""
	case b.Status == api.StatusPending, b.Status == api.StatusGenerating:
		card.Badge = BadgeGenerating
		card.Action = ""
	case b.Status == api.StatusFailed:
		card.Badge = BadgeFailed
		card.Action = ""
	default:
		card.Badge = BadgeGenerating
		card.Action = ""
	}
	return card
}
