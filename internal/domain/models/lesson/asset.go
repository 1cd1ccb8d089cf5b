package lesson

import (
	"time"
)

// AssetType is the closed set of asset kinds
type AssetType string

const (
	AssetTypeImage    AssetType = "image"
	AssetTypeVideo    AssetType = "video"
	AssetTypePDF      AssetType = "pdf"
	AssetTypeDocument AssetType = "document"
	AssetTypeAudio    AssetType = "audio"
)

// AssetTypes lists every member of the asset enum
var AssetTypes = []AssetType{
	AssetTypeImage,
	AssetTypeVideo,
	AssetTypePDF,
	AssetTypeDocument,
	AssetTypeAudio,
}

// Asset belongs to a version's lesson-level pool, not to a slot.
// Blocks reference assets by id inside their opaque content.
type Asset struct {
	ID         string    `json:"id" db:"id"`
	VersionID  string    `json:"version_id" db:"version_id"`
	Type       AssetType `json:"type" db:"type"`
	Filename   string    `json:"filename" db:"filename"`
	URL        string    `json:"url" db:"url"`
	PreviewURL *string   `json:"preview_url,omitempty" db:"preview_url"`
	FileSize   int64     `json:"file_size" db:"file_size"` // Bytes
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
