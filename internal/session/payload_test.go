package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneForGenre(t *testing.T) {
	tests := []struct {
		genre string
		tone  string
	}{
		{"comedy", "funny"},
		{"romance", "romantic"},
		{"adventure", "adventurous"},
		{"mystery", "adventurous"},
		{"memoir", "adventurous"},
		{"", "adventurous"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tone, ToneForGenre(tt.genre), "genre %q", tt.genre)
	}
}

func TestBuildCreationPayloadNilSession(t *testing.T) {
	assert.Nil(t, BuildCreationPayload(nil))
}

func TestBuildCreationPayloadMarco(t *testing.T) {
	sess := &Session{
		SessionID: "s1",
		Character: &Character{Name: "Marco", Type: CharacterPerson, Gender: GenderMale},
		Answers:   map[string]string{"personality": "curioso"},
		Genre:     "comedy",
		Email:     "marco@example.com",
	}

	p := BuildCreationPayload(sess)
	require.NotNil(t, p)

	require.Len(t, p.Characters, 1)
	assert.Equal(t, "Marco", p.Characters[0].Name)
	assert.Equal(t, "protagonist", p.Characters[0].Role)
	assert.Equal(t, "curioso", p.Characters[0].Description)
	assert.Empty(t, p.Characters[0].Personality)

	assert.Equal(t, "funny", p.Customization.Tone)
	assert.Equal(t, "Marco", p.Customization.RecipientName)
	assert.Equal(t, "self", p.Customization.RecipientRelationship)
	assert.Equal(t, "", p.Customization.DedicationMessage)
	assert.NotNil(t, p.Customization.SpecialMessages)
	assert.Empty(t, p.Customization.SpecialMessages)
	assert.Equal(t, 20, p.Customization.PageCount)
	assert.True(t, p.Customization.IncludeIllustrations)
	assert.Equal(t, "marco@example.com", p.Email)
}

func TestBuildCreationPayloadGiftAndExtras(t *testing.T) {
	sess := &Session{
		SessionID: "s2",
		IsGift:    true,
		Occasion:  "birthday",
		Character: &Character{Name: "Nonna Pia", Type: CharacterPerson},
		Answers: map[string]string{
			"quirks":           "canta in cucina",
			"memorable_moment": "il viaggio a Roma",
			"dreams":           "vedere il mare",
			"hobbies":          "giardinaggio",
		},
		Genre: "romance",
	}

	p := BuildCreationPayload(sess)
	require.NotNil(t, p)

	assert.Equal(t, []string{"canta in cucina"}, p.Characters[0].Personality)
	assert.Equal(t, "romantic", p.Customization.Tone)
	assert.Equal(t, "gift recipient", p.Customization.RecipientRelationship)
	assert.Equal(t, "il viaggio a Roma", p.Customization.DedicationMessage)
	assert.Equal(t, []string{"vedere il mare", "giardinaggio"}, p.Customization.SpecialMessages)
	assert.Equal(t, "birthday", p.Customization.Occasion)
}

func TestBuildCreationPayloadDefaultsGenre(t *testing.T) {
	sess := &Session{SessionID: "s3"}

	p := BuildCreationPayload(sess)
	require.NotNil(t, p)

	assert.Empty(t, p.Characters)
	assert.Equal(t, "comedy", p.Customization.Genre)
	// Tone follows the raw genre, which is empty here.
	assert.Equal(t, "adventurous", p.Customization.Tone)
}
