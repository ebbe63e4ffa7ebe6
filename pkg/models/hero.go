package models

import json "github.com/goccy/go-json"

// Canonical alignment values. Anything coming from the hero directory is
// mapped into one of these before it is persisted.
const (
	AlignmentHero     = "hero"
	AlignmentVillain  = "villain"
	AlignmentAntihero = "antihero"
	AlignmentUnknown  = "unknown"
)

// Hero is the canonical, persisted form of a hero directory entry.
//
// ID is the external directory identifier, not locally generated, so the
// heroes table is keyed on it and writes are insert-or-full-replace.
// The powerstats/biography/appearance/work/connections blobs are stored
// as raw JSON text and never inspected by this layer.
type Hero struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	FullName    string          `json:"full_name,omitempty"`
	Alias       string          `json:"alias,omitempty"`
	Alignment   string          `json:"alignment"`
	Image       string          `json:"image,omitempty"`
	Powerstats  json.RawMessage `json:"powerstats,omitempty"`
	Biography   json.RawMessage `json:"biography,omitempty"`
	Appearance  json.RawMessage `json:"appearance,omitempty"`
	Work        json.RawMessage `json:"work,omitempty"`
	Connections json.RawMessage `json:"connections,omitempty"`
}
