package session

// Question IDs whose answers feed directly into the creation payload.
const (
	answerPersonality     = "personality"
	answerQuirks          = "quirks"
	answerMemorableMoment = "memorable_moment"
	answerDreams          = "dreams"
	answerHobbies         = "hobbies"
)

const (
	defaultGenre = "comedy"
	// The backend prices and paginates against this fixed preview contract.
	payloadPageCount = 20
)

// CharacterPayload is one entry of the creation endpoint's characters array.
type CharacterPayload struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Description string   `json:"description"`
	Personality []string `json:"personality"`
}

// Customization is the creation endpoint's customization object.
type Customization struct {
	Genre                 string   `json:"genre"`
	Occasion              string   `json:"occasion"`
	Tone                  string   `json:"tone"`
	PageCount             int      `json:"pageCount"`
	IncludeIllustrations  bool     `json:"includeIllustrations"`
	RecipientName         string   `json:"recipientName"`
	RecipientRelationship string   `json:"recipientRelationship"`
	DedicationMessage     string   `json:"dedicationMessage"`
	SpecialMessages       []string `json:"specialMessages"`
}

// CreationPayload is the exact shape the book-creation endpoint expects.
type CreationPayload struct {
	Characters    []CharacterPayload `json:"characters"`
	Customization Customization      `json:"customization"`
	Email         string             `json:"email,omitempty"`
	IsGift        bool               `json:"isGift"`
	Occasion      string             `json:"occasion,omitempty"`
	Genre         string             `json:"genre,omitempty"`
	Answers       map[string]string  `json:"answers,omitempty"`
}

// ToneForGenre maps a genre to the narrative tone the backend expects.
// The backend depends on this exact mapping; extend the table here rather
// than branching at call sites.
func ToneForGenre(genre string) string {
	switch genre {
	case "comedy":
		return "funny"
	case "romance":
		return "romantic"
	default:
		return "adventurous"
	}
}

// BuildCreationPayload derives the book-creation request from the session.
// Pure: reads nothing but its argument. Returns nil for a nil session.
func BuildCreationPayload(s *Session) *CreationPayload {
	if s == nil {
		return nil
	}

	characters := []CharacterPayload{}
	recipientName := ""
	if s.Character != nil {
		recipientName = s.Character.Name
		personality := []string{}
		if q := s.Answers[answerQuirks]; q != "" {
			personality = append(personality, q)
		}
		characters = append(characters, CharacterPayload{
			Name:        s.Character.Name,
			Role:        "protagonist",
			Description: s.Answers[answerPersonality],
			Personality: personality,
		})
	}

	genre := s.Genre
	if genre == "" {
		genre = defaultGenre
	}

	relationship := "self"
	if s.IsGift {
		relationship = "gift recipient"
	}

	special := []string{}
	for _, id := range []string{answerDreams, answerHobbies} {
		if v := s.Answers[id]; v != "" {
			special = append(special, v)
		}
	}

	return &CreationPayload{
		Characters: characters,
		Customization: Customization{
			Genre:                 genre,
			Occasion:              s.Occasion,
			Tone:                  ToneForGenre(s.Genre),
			PageCount:             payloadPageCount,
			IncludeIllustrations:  true,
			RecipientName:         recipientName,
			RecipientRelationship: relationship,
			DedicationMessage:     s.Answers[answerMemorableMoment],
			SpecialMessages:       special,
		},
		Email:    s.Email,
		IsGift:   s.IsGift,
		Occasion: s.Occasion,
		Genre:    s.Genre,
		Answers:  s.Answers,
	}
}
