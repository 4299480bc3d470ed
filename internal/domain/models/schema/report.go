package schema

// ConversionReport summarizes classification ambiguity for one conversion run.
// Nothing in it is an error; it tells a reviewer how much to trust the schema.
type ConversionReport struct {
	TotalWidgets          int      `json:"total_widgets"`
	ContentWidgets        int      `json:"content_widgets"`
	ConvertedWidgets      int      `json:"converted_widgets"`
	PercentConverted      float64  `json:"percent_converted"`
	CandidateCount        int      `json:"candidate_count"`
	FieldCount            int      `json:"field_count"`
	GenericNameCount      int      `json:"generic_name_count"`
	PatternMatchedOnly    []string `json:"pattern_matched_only"`
	DroppedDuplicates     []string `json:"dropped_duplicates"`
	MaxDepth              int      `json:"max_depth"`
	Complexity            int      `json:"complexity"`
	CustomStylingDetected bool     `json:"custom_styling_detected"`
	ManualReviewNeeded    bool     `json:"manual_review_needed"`
	ReviewReasons         []string `json:"review_reasons"`
}
