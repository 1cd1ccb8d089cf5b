package lesson

import (
	"context"

	models "lectern/internal/domain/models/lesson"
)

// ContentService handles block and asset authoring and document assembly
type ContentService interface {
	// AddBlock adds a block to a draft. The slot must exist in the draft's layout.
	// A nil OrderIndex appends to the end of the slot.
	AddBlock(ctx context.Context, versionID string, req *AddBlockRequest) (*models.Block, error)

	// UpdateBlock edits a block of a draft
	UpdateBlock(ctx context.Context, blockID string, req *UpdateBlockRequest) (*models.Block, error)

	// DeleteBlock removes a block from a draft
	DeleteBlock(ctx context.Context, blockID string) error

	// ReorderBlocks rewrites order_index of a slot's blocks to match blockIDs.
	// blockIDs must be exactly the slot's current blocks.
	ReorderBlocks(ctx context.Context, versionID, slotID string, blockIDs []string) ([]models.Block, error)

	// AttachAsset adds an asset to a draft's asset pool
	AttachAsset(ctx context.Context, versionID string, req *AttachAssetRequest) (*models.Asset, error)

	// DetachAsset removes an asset from a draft
	DetachAsset(ctx context.Context, assetID string) error

	// GetDocument assembles the current version for the view, with diagnostics
	GetDocument(ctx context.Context, lessonID string, view models.ViewContext) (*models.AssembledDocument, error)

	// GetStudentDocument assembles the published version and merges the
	// student's progress overlay and preview eligibility
	GetStudentDocument(ctx context.Context, lessonID, studentID string) (*models.AugmentedDocument, error)
}

// AddBlockRequest represents a block creation request
type AddBlockRequest struct {
	Type       string                 `json:"type"`
	SlotID     string                 `json:"slot_id"`
	OrderIndex *int                   `json:"order_index,omitempty"`
	Content    map[string]interface{} `json:"content"`
	Settings   map[string]interface{} `json:"settings"`
}

// UpdateBlockRequest represents a block edit
type UpdateBlockRequest struct {
	SlotID     *string                `json:"slot_id,omitempty"`
	OrderIndex *int                   `json:"order_index,omitempty"`
	Content    map[string]interface{} `json:"content,omitempty"`
	Settings   map[string]interface{} `json:"settings,omitempty"`
}

// ReorderBlocksRequest represents a slot reorder request
type ReorderBlocksRequest struct {
	BlockIDs []string `json:"block_ids"`
}

// AttachAssetRequest represents an asset upload registration
type AttachAssetRequest struct {
	Type       string  `json:"type"`
	Filename   string  `json:"filename"`
	URL        string  `json:"url"`
	PreviewURL *string `json:"preview_url,omitempty"`
	FileSize   int64   `json:"file_size"`
}
