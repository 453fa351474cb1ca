package wizard

import (
	"fmt"
	"strings"

	"github.com/fiabamia/fiaba/internal/session"
)

// Step is one page of the wizard.
type Step int

const (
	StepGift Step = iota
	StepOccasion
	StepCharacter
	StepGender
	StepQuestions
	StepGenre
	StepEmail
	StepTitles
	StepCover
	StepPhoto
	StepPreview
	StepDone
)

var stepNames = map[Step]string{
	StepGift:      "gift",
	StepOccasion:  "occasion",
	StepCharacter: "character",
	StepGender:    "gender",
	StepQuestions: "questions",
	StepGenre:     "genre",
	StepEmail:     "email",
	StepTitles:    "titles",
	StepCover:     "cover",
	StepPhoto:     "photo",
	StepPreview:   "preview",
	StepDone:      "done",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// MissingPrereqError reports a step entered before an upstream step
// produced the field it needs. Recoverable: RouteTo is the step that
// can produce the missing field.
type MissingPrereqError struct {
	Step    Step
	Missing string
	RouteTo Step
}

func (e *MissingPrereqError) Error() string {
	return fmt.Sprintf("%s step needs %s, go back to the %s step", e.Step, e.Missing, e.RouteTo)
}

// ValidationError is a rejected local input. It gates advancement inside
// a step and is rendered inline, never treated as a failure of the flow.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Flow computes the active step sequence for a session and where an
// interrupted run should resume. Pure over the session snapshot; the
// store is only touched by the commit methods.
type Flow struct {
	store session.Store
}

func NewFlow(store session.Store) *Flow {
	return &Flow{store: store}
}

// Steps returns the active sequence for the session's branching choices:
// the occasion step exists only for gifts, the gender step only for
// person characters, the photo step only for photo covers.
func Steps(sess *session.Session) []Step {
	steps := []Step{StepGift}
	if sess != nil && sess.IsGift {
		steps = append(steps, StepOccasion)
	}
	steps = append(steps, StepCharacter)
	if sess == nil || sess.Character == nil || sess.Character.Type != session.CharacterPet {
		steps = append(steps, StepGender)
	}
	steps = append(steps, StepQuestions, StepGenre, StepEmail, StepTitles, StepCover)
	if sess != nil && sess.CoverType == session.CoverPhoto {
		steps = append(steps, StepPhoto)
	}
	return append(steps, StepPreview)
}

// Next returns the step after cur in the session's active sequence.
func Next(sess *session.Session, cur Step) Step {
	steps := Steps(sess)
	for i, s := range steps {
		if s == cur {
			if i+1 < len(steps) {
				return steps[i+1]
			}
			return StepDone
		}
	}
	// cur was branched out by a choice made after entering it.
	for _, s := range steps {
		if s > cur {
			return s
		}
	}
	return StepDone
}

// Prev returns the step before cur in the session's active sequence.
func Prev(sess *session.Session, cur Step) Step {
	steps := Steps(sess)
	prev := steps[0]
	for _, s := range steps {
		if s >= cur {
			return prev
		}
		prev = s
	}
	return prev
}

// FirstIncomplete returns where a session should resume: the earliest
// step whose contribution is still missing.
func FirstIncomplete(sess *session.Session) Step {
	if sess == nil {
		return StepGift
	}
	if sess.IsGift && sess.Occasion == "" {
		return StepOccasion
	}
	if sess.Character == nil || strings.TrimSpace(sess.Character.Name) == "" {
		return StepCharacter
	}
	if sess.Character.Type == session.CharacterPerson && sess.Character.Gender == "" {
		return StepGender
	}
	for _, q := range RequiredQuestions(sess.Character.Type) {
		if strings.TrimSpace(sess.Answers[q.ID]) == "" {
			return StepQuestions
		}
	}
	if sess.Genre == "" {
		return StepGenre
	}
	if sess.Email == "" || sess.BookID == "" {
		return StepEmail
	}
	if sess.SelectedTitle == "" {
		return StepTitles
	}
	if sess.CoverType == "" {
		return StepCover
	}
	if sess.CoverType == session.CoverPhoto && sess.PhotoURL == "" {
		return StepPhoto
	}
	return StepPreview
}

// CommitGift records the gift choice. First interaction of a fresh run,
// so it also self-initializes the session.
func (f *Flow) CommitGift(isGift bool) (*session.Session, error) {
	gift := isGift
	return f.store.Update(session.Patch{IsGift: &gift})
}

// CommitOccasion records a gift occasion.
func (f *Flow) CommitOccasion(id string) (*session.Session, error) {
	if !validOccasion(id) {
		return nil, &ValidationError{Field: "occasion", Message: "pick one of the listed occasions"}
	}
	return session.SetOccasion(f.store, id)
}

// CommitCharacter records the protagonist's name and type. The gender
// of a previously entered person character is preserved so that going
// back does not discard it.
func (f *Flow) CommitCharacter(name string, t session.CharacterType) (*session.Session, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if t != session.CharacterPerson && t != session.CharacterPet {
		return nil, &ValidationError{Field: "type", Message: "pick person or pet"}
	}

	c := session.Character{Name: name, Type: t}
	if cur, err := f.store.Current(); err != nil {
		return nil, err
	} else if cur != nil && cur.Character != nil && cur.Character.Type == t {
		c.Gender = cur.Character.Gender
	}
	return session.SetCharacter(f.store, c)
}

// CommitGender records a person character's gender.
func (f *Flow) CommitGender(g session.Gender) (*session.Session, error) {
	switch g {
	case session.GenderFemale, session.GenderMale, session.GenderNonBinary, session.GenderUndisclosed:
	default:
		return nil, &ValidationError{Field: "gender", Message: "pick one of the listed options"}
	}

	cur, err := f.store.Current()
	if err != nil {
		return nil, err
	}
	if cur == nil || cur.Character == nil {
		return nil, &MissingPrereqError{Step: StepGender, Missing: "a character", RouteTo: StepCharacter}
	}
	c := *cur.Character
	c.Gender = g
	return session.SetCharacter(f.store, c)
}

// CommitAnswer records one questionnaire answer. Empty answers to
// optional questions are allowed and stored as absent.
func (f *Flow) CommitAnswer(questionID, answer string) (*session.Session, error) {
	cur, err := f.store.Current()
	if err != nil {
		return nil, err
	}
	if cur == nil || cur.Character == nil {
		return nil, &MissingPrereqError{Step: StepQuestions, Missing: "a character", RouteTo: StepCharacter}
	}

	var question *Question
	for _, q := range QuestionsFor(cur.Character.Type) {
		if q.ID == questionID {
			question = &q
			break
		}
	}
	if question == nil {
		return nil, &ValidationError{Field: questionID, Message: "unknown question"}
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		if question.Required {
			return nil, &ValidationError{Field: questionID, Message: "an answer is required"}
		}
		return cur, nil
	}
	return session.SetAnswer(f.store, questionID, answer)
}

// CommitGenre records the story genre.
func (f *Flow) CommitGenre(id string) (*session.Session, error) {
	if !validGenre(id) {
		return nil, &ValidationError{Field: "genre", Message: "pick one of the listed genres"}
	}
	return session.SetGenre(f.store, id)
}

// CommitCover records the cover style.
func (f *Flow) CommitCover(ct session.CoverType) (*session.Session, error) {
	if ct != session.CoverPhoto && ct != session.CoverIllustrated {
		return nil, &ValidationError{Field: "cover", Message: "pick photo or illustrated"}
	}
	return session.SetCoverType(f.store, ct)
}

// CommitTitle records the chosen title. Custom titles pass through the
// same gate as generated ones.
func (f *Flow) CommitTitle(title, subtitle string) (*session.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "a title is required"}
	}
	return session.SetTitle(f.store, title, strings.TrimSpace(subtitle))
}
