package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiabamia/fiaba/internal/session"
)

func TestStepsBranching(t *testing.T) {
	gift := &session.Session{IsGift: true}
	assert.Contains(t, Steps(gift), StepOccasion)
	assert.NotContains(t, Steps(&session.Session{}), StepOccasion)

	pet := &session.Session{Character: &session.Character{Type: session.CharacterPet}}
	assert.NotContains(t, Steps(pet), StepGender)
	person := &session.Session{Character: &session.Character{Type: session.CharacterPerson}}
	assert.Contains(t, Steps(person), StepGender)

	photo := &session.Session{CoverType: session.CoverPhoto}
	assert.Contains(t, Steps(photo), StepPhoto)
	assert.NotContains(t, Steps(&session.Session{CoverType: session.CoverIllustrated}), StepPhoto)
}

func TestNextAndPrev(t *testing.T) {
	sess := &session.Session{IsGift: true}
	assert.Equal(t, StepOccasion, Next(sess, StepGift))
	assert.Equal(t, StepGift, Prev(sess, StepOccasion))

	noGift := &session.Session{}
	assert.Equal(t, StepCharacter, Next(noGift, StepGift))
	assert.Equal(t, StepGift, Prev(noGift, StepCharacter))

	// The pet choice removes the gender step from the path forward.
	pet := &session.Session{Character: &session.Character{Type: session.CharacterPet}}
	assert.Equal(t, StepQuestions, Next(pet, StepCharacter))
	assert.Equal(t, StepCharacter, Prev(pet, StepQuestions))

	assert.Equal(t, StepDone, Next(noGift, StepPreview))
	assert.Equal(t, StepGift, Prev(noGift, StepGift))
}

func TestFirstIncomplete(t *testing.T) {
	assert.Equal(t, StepGift, FirstIncomplete(nil))

	sess := &session.Session{IsGift: true}
	assert.Equal(t, StepOccasion, FirstIncomplete(sess))

	sess.Occasion = "birthday"
	assert.Equal(t, StepCharacter, FirstIncomplete(sess))

	sess.Character = &session.Character{Name: "Marco", Type: session.CharacterPerson}
	assert.Equal(t, StepGender, FirstIncomplete(sess))

	sess.Character.Gender = session.GenderMale
	assert.Equal(t, StepQuestions, FirstIncomplete(sess))

	sess.Answers = map[string]string{
		"personality":      "curioso",
		"quirks":           "canta sotto la doccia",
		"memorable_moment": "il viaggio a Lisbona",
	}
	assert.Equal(t, StepGenre, FirstIncomplete(sess))

	sess.Genre = "comedy"
	assert.Equal(t, StepEmail, FirstIncomplete(sess))

	sess.Email = "marco@example.com"
	// Email alone is not enough: the book must exist too.
	assert.Equal(t, StepEmail, FirstIncomplete(sess))

	sess.BookID = "b-1"
	assert.Equal(t, StepTitles, FirstIncomplete(sess))

	sess.SelectedTitle = "La Storia di Marco"
	assert.Equal(t, StepCover, FirstIncomplete(sess))

	sess.CoverType = session.CoverPhoto
	assert.Equal(t, StepPhoto, FirstIncomplete(sess))

	sess.PhotoURL = "https://cdn/x.jpg"
	assert.Equal(t, StepPreview, FirstIncomplete(sess))
}

func TestPetRequiredQuestionsGateResume(t *testing.T) {
	sess := &session.Session{
		Character: &session.Character{Name: "Fido", Type: session.CharacterPet},
		Answers:   map[string]string{"personality": "pigro"},
	}
	assert.Equal(t, StepQuestions, FirstIncomplete(sess))
	sess.Answers["quirks"] = "ruba calzini"
	assert.Equal(t, StepGenre, FirstIncomplete(sess))
}

func TestCommitOccasionForcesGift(t *testing.T) {
	store := session.NewMemStore()
	f := NewFlow(store)

	sess, err := f.CommitOccasion("birthday")
	require.NoError(t, err)
	assert.True(t, sess.IsGift)
	assert.Equal(t, "birthday", sess.Occasion)

	_, err = f.CommitOccasion("tax_season")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "occasion", verr.Field)
}

func TestCommitCharacterValidation(t *testing.T) {
	store := session.NewMemStore()
	f := NewFlow(store)

	_, err := f.CommitCharacter("   ", session.CharacterPerson)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	sess, err := f.CommitCharacter("  Marco ", session.CharacterPerson)
	require.NoError(t, err)
	assert.Equal(t, "Marco", sess.Character.Name)
}

func TestCommitCharacterPreservesGenderOnRename(t *testing.T) {
	store := session.NewMemStore()
	f := NewFlow(store)

	_, err := f.CommitCharacter("Marco", session.CharacterPerson)
	require.NoError(t, err)
	_, err = f.CommitGender(session.GenderMale)
	require.NoError(t, err)

	sess, err := f.CommitCharacter("Marco Rossi", session.CharacterPerson)
	require.NoError(t, err)
	assert.Equal(t, session.GenderMale, sess.Character.Gender)

	// Switching type starts the character over.
	sess, err = f.CommitCharacter("Fido", session.CharacterPet)
	require.NoError(t, err)
	assert.Empty(t, sess.Character.Gender)
}

func TestCommitGenderWithoutCharacterRoutesBack(t *testing.T) {
	f := NewFlow(session.NewMemStore())

	_, err := f.CommitGender(session.GenderFemale)
	var missing *MissingPrereqError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, StepCharacter, missing.RouteTo)
}

func TestCommitAnswerRequiredGate(t *testing.T) {
	store := session.NewMemStore()
	f := NewFlow(store)
	_, err := f.CommitCharacter("Marco", session.CharacterPerson)
	require.NoError(t, err)

	_, err = f.CommitAnswer("personality", "  ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// Optional questions may be skipped.
	sess, err := f.CommitAnswer("job", "")
	require.NoError(t, err)
	assert.NotContains(t, sess.Answers, "job")

	sess, err = f.CommitAnswer("personality", "curioso")
	require.NoError(t, err)
	assert.Equal(t, "curioso", sess.Answers["personality"])

	_, err = f.CommitAnswer("favorite_color", "blu")
	assert.True(t, errors.As(err, &verr), "unknown question is rejected")
}

func TestCommitGenreAndCover(t *testing.T) {
	f := NewFlow(session.NewMemStore())

	_, err := f.CommitGenre("slapstick")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	sess, err := f.CommitGenre("romance")
	require.NoError(t, err)
	assert.Equal(t, "romance", sess.Genre)

	sess, err = f.CommitCover(session.CoverIllustrated)
	require.NoError(t, err)
	assert.Equal(t, session.CoverIllustrated, sess.CoverType)
}
