package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownModel is returned when an identifier is not in the catalog.
var ErrUnknownModel = errors.New("unknown model")

// Entry is a flattened catalog row.
type Entry struct {
	ID        string `json:"id" yaml:"id"`
	Family    Family `json:"family" yaml:"family"`
	MaxTokens int    `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	HasLimit  bool   `json:"has_limit" yaml:"has_limit"`
}

var index = buildIndex()

func buildIndex() map[string]ModelID {
	idx := make(map[string]ModelID)
	for _, m := range all() {
		idx[m.ID()] = m
	}
	return idx
}

func all() []ModelID {
	var ids []ModelID
	for _, m := range GPT4Models() {
		ids = append(ids, m)
	}
	for _, m := range GPT3Models() {
		ids = append(ids, m)
	}
	for _, m := range CodexModels() {
		ids = append(ids, m)
	}
	for _, m := range WhisperModels() {
		ids = append(ids, m)
	}
	return ids
}

// Parse resolves a wire identifier to its cataloged variant.
func Parse(id string) (ModelID, error) {
	m, ok := index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return m, nil
}

// MaxTokensFor returns the context size for id. The second result is false
// when the model is unknown or has no published limit.
func MaxTokensFor(id string) (int, bool) {
	m, err := Parse(id)
	if err != nil {
		return 0, false
	}
	limited, ok := m.(TokenLimited)
	if !ok {
		return 0, false
	}
	return limited.MaxTokens(), true
}

// FamilyOf reports the family a variant belongs to, or "" for foreign types.
func FamilyOf(m ModelID) Family {
	switch m.(type) {
	case GPT4:
		return FamilyGPT4
	case GPT3:
		return FamilyGPT3
	case Codex:
		return FamilyCodex
	case Whisper:
		return FamilyWhisper
	default:
		return ""
	}
}

// Describe builds the catalog entry for a variant.
func Describe(m ModelID) Entry {
	e := Entry{ID: m.ID(), Family: FamilyOf(m)}
	if limited, ok := m.(TokenLimited); ok {
		e.MaxTokens = limited.MaxTokens()
		e.HasLimit = true
	}
	return e
}

// Entries lists every cataloged variant, grouped by family.
func Entries() []Entry {
	models := all()
	entries := make([]Entry, 0, len(models))
	for _, m := range models {
		entries = append(entries, Describe(m))
	}
	return entries
}

// EntriesFor lists the variants of a single family. An empty family returns
// every entry.
func EntriesFor(f Family) []Entry {
	if f == "" {
		return Entries()
	}
	var entries []Entry
	for _, e := range Entries() {
		if e.Family == f {
			entries = append(entries, e)
		}
	}
	return entries
}
