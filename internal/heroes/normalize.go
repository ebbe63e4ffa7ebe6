package heroes

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"heroleague/pkg/models"
)

// alignmentMap translates the directory's alignment vocabulary into the
// canonical one. Anything outside its domain (missing, empty, new tokens)
// becomes "unknown", never an error.
var alignmentMap = map[string]string{
	"good":    models.AlignmentHero,
	"bad":     models.AlignmentVillain,
	"neutral": models.AlignmentAntihero,
}

// Normalize maps a raw directory payload into the canonical hero shape.
// Pure and total over any payload with a usable identifier: the only
// failure mode is a missing or non-numeric id.
func Normalize(raw RawHero) (models.Hero, error) {
	id, err := parseID(raw.ID)
	if err != nil {
		return models.Hero{}, err
	}

	var bio struct {
		FullName  string `json:"full-name"`
		Alignment string `json:"alignment"`
	}
	if len(raw.Biography) > 0 {
		// shape is best-effort; a malformed biography only loses the
		// full name and alignment, it never fails the record
		_ = json.Unmarshal(raw.Biography, &bio)
	}

	alignment, ok := alignmentMap[strings.ToLower(strings.TrimSpace(bio.Alignment))]
	if !ok {
		alignment = models.AlignmentUnknown
	}

	return models.Hero{
		ID:          id,
		Name:        raw.Name,
		FullName:    bio.FullName,
		Alignment:   alignment,
		Image:       raw.Image.URL,
		Powerstats:  raw.Powerstats,
		Biography:   raw.Biography,
		Appearance:  raw.Appearance,
		Work:        raw.Work,
		Connections: raw.Connections,
	}, nil
}

// parseID accepts both `"id": "70"` and `"id": 70`; the directory has
// drifted between the two over time.
func parseID(raw json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, fmt.Errorf("%w: missing id", ErrMalformedPayload)
	}
	s = strings.Trim(s, `"`)
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not numeric", ErrMalformedPayload, s)
	}
	return id, nil
}
