package config

const (
	// MaxLessonTitleLength is the maximum length for lesson titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxLessonTitleLength = 255

	// MaxObjectiveLength is the maximum length for a version's objective text
	MaxObjectiveLength = 2000

	// MaxBlockTypeLength is the maximum length for a block's renderer tag
	MaxBlockTypeLength = 64

	// MaxSlotIDLength is the maximum length for slot ids
	MaxSlotIDLength = 64

	// MaxAssetFilenameLength is the maximum length for asset filenames
	MaxAssetFilenameLength = 255

	// MaxAssetURLLength is the maximum length for asset and preview URLs
	MaxAssetURLLength = 2048

	// MaxProgress is the upper bound of a progress percentage
	MaxProgress = 100

	// MaxRequestBodyBytes caps JSON request bodies. Block content is stored
	// inline, so this also bounds the size of a single block.
	MaxRequestBodyBytes = 10 << 20
)
