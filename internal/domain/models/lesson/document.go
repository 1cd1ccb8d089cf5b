package lesson

// RenderableDocument is an assembled version, ready for the block renderer.
// Slots maps every slot id of Layout to its blocks in render order.
type RenderableDocument struct {
	LessonID      string             `json:"lesson_id"`
	VersionID     string             `json:"version_id"`
	VersionNumber int                `json:"version_number"`
	Status        VersionStatus      `json:"status"`
	Metadata      VersionMetadata    `json:"metadata"`
	Layout        Layout             `json:"layout"`
	Slots         map[string][]Block `json:"slots"`
	Assets        []Asset            `json:"assets"`
}

// Diagnostics carries non-fatal authoring signals produced during assembly
type Diagnostics struct {
	// OrphanedBlocks reference a slot id absent from the resolved layout.
	// They are excluded from every slot group.
	OrphanedBlocks []Block `json:"orphaned_blocks"`
}

// HasWarnings reports whether any diagnostic was raised
func (d Diagnostics) HasWarnings() bool {
	return len(d.OrphanedBlocks) > 0
}

// AssembledDocument pairs a document with its assembly diagnostics (author view)
type AssembledDocument struct {
	Document    RenderableDocument `json:"document"`
	Diagnostics Diagnostics        `json:"diagnostics"`
}
