package lesson

// LayoutType names a fixed slot arrangement
type LayoutType string

const (
	LayoutSingle       LayoutType = "single"
	LayoutSplit        LayoutType = "split"
	LayoutSidebarLeft  LayoutType = "sidebar-left"
	LayoutSidebarRight LayoutType = "sidebar-right"
	LayoutGrid         LayoutType = "grid"
	LayoutStacked      LayoutType = "stacked"
	LayoutFocus        LayoutType = "focus"
)

// DefaultLayoutType is used when a layout type is unknown or omitted
const DefaultLayoutType = LayoutSingle

// LayoutTypes lists every member of the closed layout enum
var LayoutTypes = []LayoutType{
	LayoutSingle,
	LayoutSplit,
	LayoutSidebarLeft,
	LayoutSidebarRight,
	LayoutGrid,
	LayoutStacked,
	LayoutFocus,
}

// IsKnown reports whether t is a member of the closed enum
func (t LayoutType) IsKnown() bool {
	for _, known := range LayoutTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Slot is a named region of a layout that holds an ordered list of blocks
type Slot struct {
	ID         string `json:"id" yaml:"id"`
	Region     string `json:"region" yaml:"region"`
	OrderIndex int    `json:"order_index" yaml:"order_index"`
}

// Layout is derived from a layout type, never persisted
type Layout struct {
	NodeType LayoutType `json:"node_type"`
	Slots    []Slot     `json:"slots"`
}

// HasSlot reports whether the layout contains a slot with the given id
func (l Layout) HasSlot(slotID string) bool {
	for _, s := range l.Slots {
		if s.ID == slotID {
			return true
		}
	}
	return false
}

// SlotIDs returns the slot ids in render order
func (l Layout) SlotIDs() []string {
	ids := make([]string, len(l.Slots))
	for i, s := range l.Slots {
		ids[i] = s.ID
	}
	return ids
}
