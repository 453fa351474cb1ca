// Package wizard implements the guided book-creation flow: an ordered
// sequence of steps that accumulate a draft book in the session store,
// validate their own input, and coordinate with the backend for email
// capture, titles, photo upload, and the pre-purchase preview.
package wizard

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fiabamia/fiaba/internal/session"
)

//go:embed questions.yaml
var questionsYAML []byte

// Question is one questionnaire entry for a character type.
type Question struct {
	ID       string `yaml:"id"`
	Prompt   string `yaml:"prompt"`
	Hint     string `yaml:"hint,omitempty"`
	Required bool   `yaml:"required,omitempty"`
}

var questionSets map[string][]Question

func init() {
	if err := yaml.Unmarshal(questionsYAML, &questionSets); err != nil {
		panic(fmt.Sprintf("wizard: bad embedded question sets: %v", err))
	}
}

// QuestionsFor returns the ordered question set for a character type.
func QuestionsFor(t session.CharacterType) []Question {
	return questionSets[string(t)]
}

// RequiredQuestions returns only the questions that gate advancement.
func RequiredQuestions(t session.CharacterType) []Question {
	var req []Question
	for _, q := range QuestionsFor(t) {
		if q.Required {
			req = append(req, q)
		}
	}
	return req
}

// Occasion is one entry of the gift-occasion catalog.
type Occasion struct {
	ID    string
	Label string
}

// Occasions lists every occasion a gift book can be written for.
var Occasions = []Occasion{
	{"birthday", "Birthday"},
	{"anniversary", "Anniversary"},
	{"bachelorette", "Bachelorette"},
	{"mothers_day", "Mother's Day"},
	{"wedding", "Wedding"},
	{"retirement", "Retirement"},
	{"fathers_day", "Father's Day"},
	{"valentines_day", "Valentine's Day"},
	{"graduation", "Graduation"},
	{"farewell", "Farewell"},
	{"new_baby", "New Baby"},
	{"just_because", "Just Because"},
	{"roast", "Roast"},
}

// Genre is one entry of the story-genre catalog.
type Genre struct {
	ID    string
	Label string
}

// Genres lists the selectable story genres.
var Genres = []Genre{
	{"comedy", "Comedy"},
	{"adventure", "Adventure"},
	{"romance", "Romance"},
	{"mystery", "Mystery"},
	{"memoir", "Memoir"},
	{"drama", "Drama"},
}

// CoverTypes lists the selectable cover styles.
var CoverTypes = []session.CoverType{
	session.CoverPhoto,
	session.CoverIllustrated,
}

func validOccasion(id string) bool {
	for _, o := range Occasions {
		if o.ID == id {
			return true
		}
	}
	return false
}

func validGenre(id string) bool {
	for _, g := range Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}
