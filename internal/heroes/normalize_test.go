package heroes

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heroleague/pkg/models"
)

func rawHero(id string, biography string) RawHero {
	var raw RawHero
	raw.ID = json.RawMessage(id)
	raw.Name = "Test Hero"
	if biography != "" {
		raw.Biography = json.RawMessage(biography)
	}
	return raw
}

func TestNormalizeAlignmentMapping(t *testing.T) {
	cases := []struct {
		name      string
		biography string
		want      string
	}{
		{"good maps to hero", `{"alignment":"good"}`, models.AlignmentHero},
		{"bad maps to villain", `{"alignment":"bad"}`, models.AlignmentVillain},
		{"neutral maps to antihero", `{"alignment":"neutral"}`, models.AlignmentAntihero},
		{"empty maps to unknown", `{"alignment":""}`, models.AlignmentUnknown},
		{"missing maps to unknown", `{}`, models.AlignmentUnknown},
		{"no biography maps to unknown", "", models.AlignmentUnknown},
		{"unrecognized maps to unknown", `{"alignment":"chaotic"}`, models.AlignmentUnknown},
		{"case and spacing ignored", `{"alignment":" Good "}`, models.AlignmentHero},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := Normalize(rawHero(`"42"`, tc.biography))
			require.NoError(t, err)
			assert.Equal(t, tc.want, h.Alignment)
		})
	}
}

func TestNormalizeID(t *testing.T) {
	cases := []struct {
		name    string
		id      string
		want    int
		wantErr bool
	}{
		{"string id", `"70"`, 70, false},
		{"numeric id", `70`, 70, false},
		{"missing id", ``, 0, true},
		{"null id", `null`, 0, true},
		{"non-numeric id", `"batman"`, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := Normalize(rawHero(tc.id, ""))
			if tc.wantErr {
				require.ErrorIs(t, err, ErrMalformedPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, h.ID)
		})
	}
}

func TestNormalizeFieldMapping(t *testing.T) {
	var raw RawHero
	raw.ID = json.RawMessage(`"644"`)
	raw.Name = "Superman"
	raw.Biography = json.RawMessage(`{"full-name":"Clark Kent","alignment":"good"}`)
	raw.Powerstats = json.RawMessage(`{"strength":"100"}`)
	raw.Image.URL = "https://img.example/644.jpg"

	h, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, 644, h.ID)
	assert.Equal(t, "Superman", h.Name)
	assert.Equal(t, "Clark Kent", h.FullName)
	assert.Equal(t, models.AlignmentHero, h.Alignment)
	assert.Equal(t, "https://img.example/644.jpg", h.Image)
	assert.JSONEq(t, `{"strength":"100"}`, string(h.Powerstats))

	// blobs are opaque passthrough: absent stays absent
	assert.Nil(t, h.Appearance)
	assert.Nil(t, h.Work)
	assert.Nil(t, h.Connections)
}

func TestNormalizeTotalOverBrokenOptionalFields(t *testing.T) {
	raw := rawHero(`"7"`, `not even json`)
	h, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, models.AlignmentUnknown, h.Alignment)
	assert.Empty(t, h.FullName)
}
