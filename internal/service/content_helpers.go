package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/mosquee-go/internal/models"
)

type taxonomyField struct {
	kind   models.TaxonomyKind
	value  string
	label  string
	target *string
}

// resolveTaxonomies resolves every field in order and writes the stored name into target.
func resolveTaxonomies(ctx context.Context, resolver TaxonomyResolver, fields ...taxonomyField) error {
	for _, field := range fields {
		name, err := resolver.Resolve(ctx, field.kind, field.value, field.label)
		if err != nil {
			return fmt.Errorf("%s: %w", field.kind, err)
		}
		*field.target = name
	}
	return nil
}

// legacyImage mirrors the first image into the single-image column, keeping previous when the list is empty.
func legacyImage(images []string, previous string) string {
	if len(images) > 0 {
		return images[0]
	}
	return previous
}
