package config

const (
	// MaxPageNameLength is the maximum length for page names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxPageNameLength = 255

	// MaxSlugLength caps derived slugs. Longer names are truncated
	// at a word boundary before the slug is built.
	MaxSlugLength = 96

	// MaxSEOTitleLength and MaxSEODescriptionLength are the lengths search
	// engines display before truncating. Exceeding them is a warning only.
	MaxSEOTitleLength       = 60
	MaxSEODescriptionLength = 160

	// MaxWidgetDepth bounds nesting accepted on import.
	MaxWidgetDepth = 32

	// DefaultComplexityThreshold is the complexity score above which a
	// conversion is flagged for manual review.
	DefaultComplexityThreshold = 120

	// MinConversionCandidates is the candidate count below which a
	// conversion is flagged for manual review.
	MinConversionCandidates = 2

	// MaxRequestBodyBytes limits JSON request bodies (10MB).
	MaxRequestBodyBytes = 10 << 20
)
