// Package session manages the book creation session: the draft answers,
// identifiers and tokens accumulated while the wizard advances. All
// book-related data is stored as one blob per session ID so that nothing
// sensitive ever travels in command arguments or URLs.
package session

import (
	"time"
)

// CharacterType distinguishes the two question sets.
type CharacterType string

const (
	CharacterPerson CharacterType = "person"
	CharacterPet    CharacterType = "pet"
)

// Gender is only meaningful for person characters.
type Gender string

const (
	GenderFemale      Gender = "female"
	GenderMale        Gender = "male"
	GenderNonBinary   Gender = "non-binary"
	GenderUndisclosed Gender = "prefer-not-to-say"
)

// CoverType selects the cover generation path.
type CoverType string

const (
	CoverPhoto       CoverType = "photo"
	CoverIllustrated CoverType = "illustrated"
)

// Character is the book's protagonist as entered in the wizard.
type Character struct {
	Name   string        `json:"name"`
	Type   CharacterType `json:"type"`
	Gender Gender        `json:"gender,omitempty"`
}

// Session is the full book creation session state.
type Session struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Flow state
	IsGift   bool   `json:"isGift"`
	Occasion string `json:"occasion,omitempty"`

	Character *Character        `json:"character,omitempty"`
	Answers   map[string]string `json:"answers,omitempty"`

	// Book preferences
	Genre     string    `json:"genre,omitempty"`
	CoverType CoverType `json:"coverType,omitempty"`

	Email string `json:"email,omitempty"`

	// Backend references (after book creation)
	BookID          string `json:"bookId,omitempty"`
	AuthToken       string `json:"authToken,omitempty"`
	MagicLinkToken  string `json:"magicLinkToken,omitempty"`
	BookAccessToken string `json:"bookAccessToken,omitempty"`

	// Title selection
	SelectedTitle    string `json:"selectedTitle,omitempty"`
	SelectedSubtitle string `json:"selectedSubtitle,omitempty"`

	// Photo upload
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Patch is a partial session update. Nil fields are left untouched;
// Answers are merged key by key, never replaced wholesale.
type Patch struct {
	IsGift           *bool
	Occasion         *string
	Character        *Character
	Answers          map[string]string
	Genre            *string
	CoverType        *CoverType
	Email            *string
	BookID           *string
	AuthToken        *string
	MagicLinkToken   *string
	BookAccessToken  *string
	SelectedTitle    *string
	SelectedSubtitle *string
	PhotoURL         *string
}

// apply merges a patch into a session and refreshes UpdatedAt.
// The session is never overwritten wholesale: every mutation is
// {...current, ...patch, updatedAt: now}.
func apply(s *Session, p Patch) {
	if p.IsGift != nil {
		s.IsGift = *p.IsGift
	}
	if p.Occasion != nil {
		s.Occasion = *p.Occasion
	}
	if p.Character != nil {
		c := *p.Character
		s.Character = &c
	}
	if len(p.Answers) > 0 {
		if s.Answers == nil {
			s.Answers = make(map[string]string, len(p.Answers))
		}
		for k, v := range p.Answers {
			s.Answers[k] = v
		}
	}
	if p.Genre != nil {
		s.Genre = *p.Genre
	}
	if p.CoverType != nil {
		s.CoverType = *p.CoverType
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.BookID != nil {
		s.BookID = *p.BookID
	}
	if p.AuthToken != nil {
		s.AuthToken = *p.AuthToken
	}
	if p.MagicLinkToken != nil {
		s.MagicLinkToken = *p.MagicLinkToken
	}
	if p.BookAccessToken != nil {
		s.BookAccessToken = *p.BookAccessToken
	}
	if p.SelectedTitle != nil {
		s.SelectedTitle = *p.SelectedTitle
	}
	if p.SelectedSubtitle != nil {
		s.SelectedSubtitle = *p.SelectedSubtitle
	}
	if p.PhotoURL != nil {
		s.PhotoURL = *p.PhotoURL
	}
	s.UpdatedAt = time.Now().UTC()
}

func ptr[T any](v T) *T { return &v }
