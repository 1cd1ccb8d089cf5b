package lesson

import (
	"maps"
	"sort"

	models "lectern/internal/domain/models/lesson"
	"lectern/internal/layout"
)

// Assemble resolves the version's layout and groups its blocks into slots.
//
// Blocks are ordered by order_index, then creation time, then input order.
// Blocks whose slot id is not in the resolved layout are excluded from the
// slot map and reported in Diagnostics. Assets are attached as a lesson-level
// pool. Inputs are not modified and identical inputs give identical output.
//
// Each block's Content and Settings maps are copied one level deep. Nested
// maps and slices are still shared with the input and must be treated as
// read-only by the renderer.
func Assemble(catalog *layout.Catalog, version models.LessonVersion, blocks []models.Block, assets []models.Asset) (models.RenderableDocument, models.Diagnostics) {
	resolved := catalog.Resolve(string(version.LayoutType))

	ordered := make([]models.Block, len(blocks))
	for i, b := range blocks {
		b.Content = maps.Clone(b.Content)
		b.Settings = maps.Clone(b.Settings)
		ordered[i] = b
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].OrderIndex != ordered[j].OrderIndex {
			return ordered[i].OrderIndex < ordered[j].OrderIndex
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	slots := make(map[string][]models.Block, len(resolved.Slots))
	for _, slot := range resolved.Slots {
		slots[slot.ID] = []models.Block{}
	}

	diagnostics := models.Diagnostics{OrphanedBlocks: []models.Block{}}
	for _, b := range ordered {
		group, ok := slots[b.SlotID]
		if !ok {
			diagnostics.OrphanedBlocks = append(diagnostics.OrphanedBlocks, b)
			continue
		}
		slots[b.SlotID] = append(group, b)
	}

	pool := make([]models.Asset, len(assets))
	copy(pool, assets)

	doc := models.RenderableDocument{
		LessonID:      version.LessonID,
		VersionID:     version.ID,
		VersionNumber: version.VersionNumber,
		Status:        version.Status,
		Metadata:      version.Metadata,
		Layout:        resolved,
		Slots:         slots,
		Assets:        pool,
	}

	return doc, diagnostics
}

// orphanedSlotIDs lists the distinct slot ids blocks would lose under layoutType
func orphanedSlotIDs(catalog *layout.Catalog, layoutType models.LayoutType, blocks []models.Block) []string {
	resolved := catalog.Resolve(string(layoutType))
	seen := make(map[string]bool)
	var missing []string
	for _, b := range blocks {
		if resolved.HasSlot(b.SlotID) || seen[b.SlotID] {
			continue
		}
		seen[b.SlotID] = true
		missing = append(missing, b.SlotID)
	}
	return missing
}
