package page

import models "sitecraft/internal/domain/models/page"

// ContentProvider supplies default content for a widget type, typically
// industry-specific marketing copy. Returned maps are merged over the widget
// library defaults and must not be retained or mutated by the caller.
type ContentProvider interface {
	DefaultContent(widgetType models.WidgetType) (models.WidgetContent, bool)
}
