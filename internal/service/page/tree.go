package page

import (
	"fmt"

	"sitecraft/internal/config"
	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
)

// FindWidget returns the first node with id in depth-first order, or nil
func FindWidget(tree []*models.WidgetNode, id string) *models.WidgetNode {
	for _, node := range tree {
		if node.ID == id {
			return node
		}
		if found := FindWidget(node.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// FindParent locates the node with id and reports its parent (nil for roots)
// and its index among the parent's children.
func FindParent(tree []*models.WidgetNode, id string) (parent *models.WidgetNode, index int, found bool) {
	return findParent(nil, tree, id)
}

func findParent(parent *models.WidgetNode, siblings []*models.WidgetNode, id string) (*models.WidgetNode, int, bool) {
	for i, node := range siblings {
		if node.ID == id {
			return parent, i, true
		}
		if p, idx, ok := findParent(node, node.Children, id); ok {
			return p, idx, true
		}
	}
	return nil, -1, false
}

// RemoveWidget removes the first node with id at any depth, together with its
// subtree, and reports whether anything was removed.
func RemoveWidget(tree *[]*models.WidgetNode, id string) bool {
	return detach(tree, id) != nil
}

func detach(tree *[]*models.WidgetNode, id string) *models.WidgetNode {
	nodes := *tree
	for i, node := range nodes {
		if node.ID == id {
			*tree = append(nodes[:i:i], nodes[i+1:]...)
			return node
		}
		if removed := detach(&node.Children, id); removed != nil {
			return removed
		}
	}
	return nil
}

// DuplicateWidget deep-clones w and gives every node of the clone a fresh id
func DuplicateWidget(w *models.WidgetNode) *models.WidgetNode {
	clone := w.Clone()
	clone.Walk(func(node *models.WidgetNode, _ int) bool {
		node.ID = NewWidgetID()
		return true
	})
	return clone
}

// MoveWidget moves the node with id under targetParentID (the root list when
// empty) at position, clamped to the valid range. Invalid moves leave the
// document untouched.
func MoveWidget(doc *models.PageDocument, id, targetParentID string, position int) error {
	node := FindWidget(doc.Widgets, id)
	if node == nil {
		return &domain.WidgetNotFoundError{ID: id}
	}

	if targetParentID != "" {
		if targetParentID == id || FindWidget(node.Children, targetParentID) != nil {
			return &domain.CyclicMoveError{WidgetID: id, TargetID: targetParentID}
		}
		target := FindWidget(doc.Widgets, targetParentID)
		if target == nil {
			return &domain.WidgetNotFoundError{ID: targetParentID}
		}
		if !target.Type.IsContainer() {
			return &domain.InvalidParentError{ParentID: target.ID, ParentType: string(target.Type)}
		}
	}

	detach(&doc.Widgets, id)
	siblings := &doc.Widgets
	if targetParentID != "" {
		siblings = &FindWidget(doc.Widgets, targetParentID).Children
	}
	insertAt(siblings, node, position)
	doc.Touch()
	return nil
}

// InsertWidget attaches node under parentID (the root list when empty) at position.
// Ids in node's subtree must not already exist in the document.
func InsertWidget(doc *models.PageDocument, node *models.WidgetNode, parentID string, position int) error {
	existing := collectIDs(doc.Widgets)
	var dup string
	node.Walk(func(n *models.WidgetNode, _ int) bool {
		if dup == "" && existing[n.ID] {
			dup = n.ID
		}
		return dup == ""
	})
	if dup != "" {
		return &domain.DuplicateWidgetIDError{ID: dup}
	}

	siblings := &doc.Widgets
	if parentID != "" {
		parent := FindWidget(doc.Widgets, parentID)
		if parent == nil {
			return &domain.WidgetNotFoundError{ID: parentID}
		}
		if !parent.Type.IsContainer() {
			return &domain.InvalidParentError{ParentID: parent.ID, ParentType: string(parent.Type)}
		}
		siblings = &parent.Children
	}

	insertAt(siblings, node, position)
	doc.Touch()
	return nil
}

// RemoveFromDocument removes a widget subtree from the document
func RemoveFromDocument(doc *models.PageDocument, id string) error {
	if !RemoveWidget(&doc.Widgets, id) {
		return &domain.WidgetNotFoundError{ID: id}
	}
	doc.Touch()
	return nil
}

// DuplicateInDocument clones the widget with id and inserts the clone right after it
func DuplicateInDocument(doc *models.PageDocument, id string) (*models.WidgetNode, error) {
	parent, index, found := FindParent(doc.Widgets, id)
	if !found {
		return nil, &domain.WidgetNotFoundError{ID: id}
	}

	siblings := &doc.Widgets
	if parent != nil {
		siblings = &parent.Children
	}
	clone := DuplicateWidget((*siblings)[index])
	insertAt(siblings, clone, index+1)
	doc.Touch()
	return clone, nil
}

// WidgetPatch is a partial widget update. Nil members are left unchanged;
// a nil value inside Content or Style deletes that key.
type WidgetPatch struct {
	Content map[string]any `json:"content,omitempty"`
	Style   map[string]any `json:"style,omitempty"`
	Visible *bool          `json:"visible,omitempty"`
	Locked  *bool          `json:"locked,omitempty"`
}

// UpdateWidget applies patch to the widget with id
func UpdateWidget(doc *models.PageDocument, id string, patch WidgetPatch) error {
	node := FindWidget(doc.Widgets, id)
	if node == nil {
		return &domain.WidgetNotFoundError{ID: id}
	}

	style := make(models.WidgetStyle, len(patch.Style))
	for prop, raw := range patch.Style {
		if raw == nil {
			continue
		}
		v, err := models.StyleValueFromAny(raw)
		if err != nil {
			return fmt.Errorf("%w: style %q: %v", domain.ErrValidation, prop, err)
		}
		style[prop] = v
	}

	if node.Content == nil && len(patch.Content) > 0 {
		node.Content = models.WidgetContent{}
	}
	for k, v := range patch.Content {
		if v == nil {
			delete(node.Content, k)
			continue
		}
		node.Content[k] = normalizeValue(v)
	}
	if node.Style == nil && len(style) > 0 {
		node.Style = models.WidgetStyle{}
	}
	for prop, raw := range patch.Style {
		if raw == nil {
			delete(node.Style, prop)
			continue
		}
		node.Style[prop] = style[prop]
	}
	if patch.Visible != nil {
		node.Visible = *patch.Visible
	}
	if patch.Locked != nil {
		node.Locked = *patch.Locked
	}

	doc.Touch()
	return nil
}

// CheckTree verifies structural invariants of an externally supplied tree:
// registered types, unique ids, childless leaves and bounded depth.
func CheckTree(lib *Library, tree []*models.WidgetNode) error {
	seen := make(map[string]bool)
	var err error
	for _, root := range tree {
		root.Walk(func(n *models.WidgetNode, depth int) bool {
			if err != nil {
				return false
			}
			switch {
			case n.ID == "":
				err = fmt.Errorf("%w: widget of type %q has no id", domain.ErrValidation, n.Type)
			case seen[n.ID]:
				err = &domain.DuplicateWidgetIDError{ID: n.ID}
			case !lib.Known(n.Type):
				err = &domain.UnknownWidgetTypeError{Type: string(n.Type)}
			case !n.Type.IsContainer() && len(n.Children) > 0:
				err = &domain.InvalidParentError{ParentID: n.ID, ParentType: string(n.Type)}
			case depth >= config.MaxWidgetDepth:
				err = fmt.Errorf("%w: widget %q nested deeper than %d levels", domain.ErrValidation, n.ID, config.MaxWidgetDepth)
			}
			seen[n.ID] = true
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func collectIDs(tree []*models.WidgetNode) map[string]bool {
	ids := make(map[string]bool)
	for _, root := range tree {
		root.Walk(func(n *models.WidgetNode, _ int) bool {
			ids[n.ID] = true
			return true
		})
	}
	return ids
}

func insertAt(siblings *[]*models.WidgetNode, node *models.WidgetNode, position int) {
	nodes := *siblings
	if position < 0 {
		position = 0
	}
	if position > len(nodes) {
		position = len(nodes)
	}
	nodes = append(nodes, nil)
	copy(nodes[position+1:], nodes[position:])
	nodes[position] = node
	*siblings = nodes
}
