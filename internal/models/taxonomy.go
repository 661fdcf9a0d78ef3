package models

import (
	"strings"
	"time"
)

// TaxonomyKind discriminates the reference lists stored in the taxonomies table.
type TaxonomyKind string

// Taxonomy kinds.
const (
	TaxonomyLocation    TaxonomyKind = "location"
	TaxonomyCategory    TaxonomyKind = "category"
	TaxonomyEventType   TaxonomyKind = "event_type"
	TaxonomyAuthor      TaxonomyKind = "author"
	TaxonomyPole        TaxonomyKind = "pole"
	TaxonomyRole        TaxonomyKind = "role"
	TaxonomyQuoteSource TaxonomyKind = "quote_source"
)

// TaxonomyKinds lists every supported kind.
var TaxonomyKinds = []TaxonomyKind{
	TaxonomyLocation,
	TaxonomyCategory,
	TaxonomyEventType,
	TaxonomyAuthor,
	TaxonomyPole,
	TaxonomyRole,
	TaxonomyQuoteSource,
}

// ParseTaxonomyKind validates a route value.
func ParseTaxonomyKind(value string) (TaxonomyKind, bool) {
	candidate := TaxonomyKind(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range TaxonomyKinds {
		if kind == candidate {
			return kind, true
		}
	}
	return "", false
}

// Taxonomy is a named reference value of a given kind.
type Taxonomy struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Kind      TaxonomyKind `gorm:"size:32;not null;uniqueIndex:idx_taxonomy_kind_name" json:"kind"`
	Name      string       `gorm:"size:255;not null;uniqueIndex:idx_taxonomy_kind_name" json:"name"`
	IsSystem  bool         `gorm:"not null;default:false" json:"is_system"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
