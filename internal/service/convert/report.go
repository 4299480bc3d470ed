package convert

import (
	"fmt"
	"math"

	"sitecraft/internal/config"
	models "sitecraft/internal/domain/models/page"
	"sitecraft/internal/domain/models/schema"
	pageService "sitecraft/internal/service/page"
)

// depthWeight is the complexity cost of each nesting level below the roots
const depthWeight = 5

// customStyleSettings mark hand-written styling the field schema cannot carry
var customStyleSettings = []string{"custom_css", "css_classes"}

type treeStats struct {
	total         int
	content       int
	styled        int
	maxDepth      int
	customStyling bool
	customSignals []string
}

func collectStats(library *pageService.Library, tree []*models.WidgetNode) treeStats {
	var s treeStats
	for _, root := range tree {
		if root == nil {
			continue
		}
		root.Walk(func(w *models.WidgetNode, depth int) bool {
			s.total++
			if depth+1 > s.maxDepth {
				s.maxDepth = depth + 1
			}
			if library.Shape(w.Type) != nil {
				s.content++
			}
			if len(w.Style) > 0 {
				s.styled++
			}
			for _, key := range customStyleSettings {
				if w.SettingString(key) != "" {
					s.customStyling = true
					s.customSignals = append(s.customSignals, fmt.Sprintf("widget %s sets %s", w.ID, key))
				}
			}
			for prop := range w.Style {
				if !pageService.KnownStyleProperty(prop) {
					s.customStyling = true
					s.customSignals = append(s.customSignals, fmt.Sprintf("widget %s uses style %q", w.ID, prop))
				}
			}
			return true
		})
	}
	return s
}

// buildReport summarizes one conversion run. threshold is the complexity
// above which a manual review is requested.
func buildReport(library *pageService.Library, tree []*models.WidgetNode, candidates []schema.Candidate, groups []schema.FieldGroup, dropped []string, threshold int) schema.ConversionReport {
	stats := collectStats(library, tree)

	fieldCount := 0
	for _, g := range groups {
		fieldCount += len(g.Fields)
	}

	converted := make(map[string]bool)
	origins := make(map[string]map[schema.Origin]bool)
	generic := 0
	fromTree := 0
	for _, c := range candidates {
		if c.GenericName {
			generic++
		}
		if c.SourceWidgetID != "" {
			fromTree++
		}
		if origins[c.InferredFieldName] == nil {
			origins[c.InferredFieldName] = make(map[schema.Origin]bool)
		}
		origins[c.InferredFieldName][c.Origin] = true
	}

	// a widget is converted when one of its candidates won its field name
	var patternOnly []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		name := c.InferredFieldName
		if seen[name] {
			continue
		}
		seen[name] = true
		if c.SourceWidgetID != "" {
			converted[c.SourceWidgetID] = true
		}
		o := origins[name]
		if o[schema.OriginPatternMatched] && len(o) == 1 {
			patternOnly = append(patternOnly, name)
		}
	}

	// only widgets of classifiable types count towards the percentage
	convertedContent := 0
	for _, root := range tree {
		if root == nil {
			continue
		}
		root.Walk(func(w *models.WidgetNode, _ int) bool {
			if converted[w.ID] && library.Shape(w.Type) != nil {
				convertedContent++
			}
			return true
		})
	}

	percent := 0.0
	if stats.content > 0 {
		percent = math.Round(float64(convertedContent)/float64(stats.content)*1000) / 10
	}

	complexity := stats.total + stats.styled
	if stats.maxDepth > 1 {
		complexity += depthWeight * (stats.maxDepth - 1)
	}

	report := schema.ConversionReport{
		TotalWidgets:          stats.total,
		ContentWidgets:        stats.content,
		ConvertedWidgets:      convertedContent,
		PercentConverted:      percent,
		CandidateCount:        len(candidates),
		FieldCount:            fieldCount,
		GenericNameCount:      generic,
		PatternMatchedOnly:    nonNil(patternOnly),
		DroppedDuplicates:     nonNil(dropped),
		MaxDepth:              stats.maxDepth,
		Complexity:            complexity,
		CustomStylingDetected: stats.customStyling,
		ReviewReasons:         []string{},
	}

	if complexity > threshold {
		report.ReviewReasons = append(report.ReviewReasons,
			fmt.Sprintf("complexity %d exceeds threshold %d", complexity, threshold))
	}
	if stats.customStyling {
		report.ReviewReasons = append(report.ReviewReasons, "custom styling detected: "+stats.customSignals[0])
	}
	// domain-fixed candidates are always present and say nothing about the tree
	if fromTree < config.MinConversionCandidates {
		report.ReviewReasons = append(report.ReviewReasons,
			fmt.Sprintf("only %d candidates found in the widget tree", fromTree))
	}
	if len(patternOnly) > 0 {
		report.ReviewReasons = append(report.ReviewReasons,
			fmt.Sprintf("%d fields found only by text pattern", len(patternOnly)))
	}
	report.ManualReviewNeeded = len(report.ReviewReasons) > 0
	return report
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
