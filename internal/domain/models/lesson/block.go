package lesson

import (
	"time"
)

// BlockType tags the renderer for a block. The set is open; these are the
// types the storefront ships renderers for.
type BlockType string

const (
	BlockTypeVideo    BlockType = "video"
	BlockTypeText     BlockType = "text"
	BlockTypeQuiz     BlockType = "quiz"
	BlockTypePractice BlockType = "practice"
	BlockTypeDocument BlockType = "document"
)

// Block is a typed unit of content placed in one slot of one version.
// Content and Settings are opaque to this service and routed to the renderer unchanged.
type Block struct {
	ID         string                 `json:"id" db:"id"`
	VersionID  string                 `json:"version_id" db:"version_id"`
	Type       BlockType              `json:"type" db:"type"`
	SlotID     string                 `json:"slot_id" db:"slot_id"`
	OrderIndex int                    `json:"order_index" db:"order_index"` // Unique within a slot
	Content    map[string]interface{} `json:"content" db:"content"`
	Settings   map[string]interface{} `json:"settings" db:"settings"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at" db:"updated_at"`
}
