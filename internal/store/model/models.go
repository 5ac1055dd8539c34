package model

import (
	"database/sql"
	"time"

	"github.com/nulzo/model-catalog/pkg/catalog"
)

// Model is a row of the models table.
type Model struct {
	ID         string         `db:"id"`
	Object     string         `db:"object"`
	CreatedAt  int64          `db:"created_at"` // unix seconds
	CreatedNs  int64          `db:"created_ns"` // nanoseconds within CreatedAt
	OwnedBy    string         `db:"owned_by"`
	Root       string         `db:"root"`
	Parent     sql.NullString `db:"parent"`
	ImportedAt time.Time      `db:"imported_at"`
}

// Permission is a row of the model_permissions table.
type Permission struct {
	ModelID            string         `db:"model_id"`
	Position           int            `db:"position"` // index in the listing
	ID                 string         `db:"id"`
	Object             string         `db:"object"`
	CreatedAt          int64          `db:"created_at"`
	CreatedNs          int64          `db:"created_ns"`
	AllowCreateEngine  bool           `db:"allow_create_engine"`
	AllowSampling      bool           `db:"allow_sampling"`
	AllowLogprobs      bool           `db:"allow_logprobs"`
	AllowSearchIndices bool           `db:"allow_search_indices"`
	AllowView          bool           `db:"allow_view"`
	AllowFineTuning    bool           `db:"allow_fine_tuning"`
	Organization       string         `db:"organization"`
	Group              sql.NullString `db:"grp"`
	IsBlocking         bool           `db:"is_blocking"`
}

// FromCatalog converts a decoded model into rows.
func FromCatalog(m catalog.Model, importedAt time.Time) (Model, []Permission) {
	row := Model{
		ID:         m.ID,
		Object:     m.Object,
		CreatedAt:  m.Created.Unix(),
		CreatedNs:  int64(m.Created.Nanosecond()),
		OwnedBy:    m.OwnedBy,
		Root:       m.Root,
		Parent:     nullString(m.Parent),
		ImportedAt: importedAt,
	}

	perms := make([]Permission, 0, len(m.Permission))
	for i, p := range m.Permission {
		perms = append(perms, Permission{
			ModelID:            m.ID,
			Position:           i,
			ID:                 p.ID,
			Object:             p.Object,
			CreatedAt:          p.Created.Unix(),
			CreatedNs:          int64(p.Created.Nanosecond()),
			AllowCreateEngine:  p.AllowCreateEngine,
			AllowSampling:      p.AllowSampling,
			AllowLogprobs:      p.AllowLogprobs,
			AllowSearchIndices: p.AllowSearchIndices,
			AllowView:          p.AllowView,
			AllowFineTuning:    p.AllowFineTuning,
			Organization:       p.Organization,
			Group:              nullString(p.Group),
			IsBlocking:         p.IsBlocking,
		})
	}
	return row, perms
}

// ToCatalog rebuilds a catalog record. perms must already be in position order.
func (m Model) ToCatalog(perms []Permission) catalog.Model {
	out := catalog.Model{
		ID:         m.ID,
		Object:     m.Object,
		Created:    time.Unix(m.CreatedAt, m.CreatedNs).UTC(),
		OwnedBy:    m.OwnedBy,
		Root:       m.Root,
		Parent:     stringPtr(m.Parent),
		Permission: make([]catalog.Permission, 0, len(perms)),
	}
	for _, p := range perms {
		out.Permission = append(out.Permission, catalog.Permission{
			ID:                 p.ID,
			Object:             p.Object,
			Created:            time.Unix(p.CreatedAt, p.CreatedNs).UTC(),
			AllowCreateEngine:  p.AllowCreateEngine,
			AllowSampling:      p.AllowSampling,
			AllowLogprobs:      p.AllowLogprobs,
			AllowSearchIndices: p.AllowSearchIndices,
			AllowView:          p.AllowView,
			AllowFineTuning:    p.AllowFineTuning,
			Organization:       p.Organization,
			Group:              stringPtr(p.Group),
			IsBlocking:         p.IsBlocking,
		})
	}
	return out
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
