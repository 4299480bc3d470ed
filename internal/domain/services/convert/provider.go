package convert

import (
	"context"

	"sitecraft/internal/domain/models/schema"
)

// GenerationProvider produces actual field values for a synthesized schema.
// Returned keys are field names; missing keys keep the field defaults.
type GenerationProvider interface {
	GenerateValues(ctx context.Context, groups []schema.FieldGroup) (map[string]string, error)

	// Name returns a provider name for logging
	Name() string
}
