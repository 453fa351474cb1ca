package api

import "time"

// BookStatus is the backend's book generation state machine. Expected
// order: DRAFT, PENDING, GENERATING, COVER_PENDING, UPLOADING, COMPLETED,
// with FAILED reachable from any state. COMPLETED and FAILED are terminal.
type BookStatus string

const (
	StatusDraft        BookStatus = "DRAFT"
	StatusPending      BookStatus = "PENDING"
	StatusGenerating   BookStatus = "GENERATING"
	StatusCoverPending BookStatus = "COVER_PENDING"
	StatusUploading    BookStatus = "UPLOADING"
	StatusCompleted    BookStatus = "COMPLETED"
	StatusFailed       BookStatus = "FAILED"
)

// Terminal reports whether no further transitions can happen.
func (s BookStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// BookCharacter is a character of a backend book record.
type BookCharacter struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Description string   `json:"description,omitempty"`
	Personality []string `json:"personality,omitempty"`
}

// BookDraft is the backend's book record. The client only holds a cached
// shadow of it; the backend owns the truth.
type BookDraft struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Subtitle       string          `json:"subtitle,omitempty"`
	Genre          string          `json:"genre"`
	Occasion       string          `json:"occasion,omitempty"`
	Characters     []BookCharacter `json:"characters"`
	Customization  map[string]any  `json:"customization"`
	Status         BookStatus      `json:"status"`
	PDFURL         string          `json:"pdfUrl,omitempty"`
	CoverImageURL  string          `json:"coverImageUrl,omitempty"`
	GuestSessionID string          `json:"guestSessionId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// PreviewPage is one page of the pre-purchase preview.
type PreviewPage struct {
	PageNumber    int    `json:"pageNumber,omitempty"`
	ChapterNumber int    `json:"chapterNumber,omitempty"`
	Title         string `json:"title,omitempty"`
	Content       string `json:"content"`
	Illustration  string `json:"illustration,omitempty"`
}

// BookPreview is the short non-final rendering generated before purchase.
type BookPreview struct {
	Title            string        `json:"title"`
	Subtitle         string        `json:"subtitle,omitempty"`
	PreviewPages     []PreviewPage `json:"previewPages"`
	PreviewCoverURL  string        `json:"previewCoverUrl,omitempty"`
	PreviewGenerated bool          `json:"previewGenerated"`
}

// TitleVariant is one generated title option.
type TitleVariant struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// User is the account a captured email maps to.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// EmailCaptureResult links a guest book to an account and returns its token.
type EmailCaptureResult struct {
	Book  BookDraft `json:"book"`
	User  User      `json:"user"`
	Token string    `json:"token"`
}

// VerifiedIdentity is the payload of a verified magic-link token.
type VerifiedIdentity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Valid  bool   `json:"valid"`
}

// AccessGrant is the payload of a verified single-book access token.
type AccessGrant struct {
	BookID string `json:"bookId"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Action string `json:"action"`
}

// Order is a purchase record for one book.
type Order struct {
	ID          string    `json:"id"`
	BookID      string    `json:"bookId"`
	Status      string    `json:"status"`
	Total       float64   `json:"total"`
	Currency    string    `json:"currency"`
	OrderNumber string    `json:"orderNumber"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
}

// Paid reports whether the order reached a paid-or-later state.
func (o Order) Paid() bool {
	switch o.Status {
	case "PAID", "FULFILLED", "DELIVERED":
		return true
	}
	return false
}

// CheckoutSession is the payment redirect handle for an order.
type CheckoutSession struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// DownloadLink is a fresh short-lived URL for the final PDF. It expires;
// fetch a new one per download instead of caching it.
type DownloadLink struct {
	URL string `json:"url"`
}

// UploadedFile is the stored location of an uploaded image.
type UploadedFile struct {
	URL string `json:"url"`
}

// OwnedBook is one entry of the my-books listing, a book joined with its
// payment state.
type OwnedBook struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Subtitle         string     `json:"subtitle,omitempty"`
	Genre            string     `json:"genre"`
	Occasion         string     `json:"occasion,omitempty"`
	CoverImageURL    string     `json:"coverImageUrl,omitempty"`
	PreviewCoverURL  string     `json:"previewCoverUrl,omitempty"`
	Status           BookStatus `json:"status"`
	PreviewGenerated bool       `json:"previewGenerated"`
	CreatedAt        time.Time  `json:"createdAt"`
	GeneratedAt      *time.Time `json:"generatedAt,omitempty"`
	IsPaid           bool       `json:"isPaid"`
	Order            *Order     `json:"order,omitempty"`
}
