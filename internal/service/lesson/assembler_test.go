package lesson

import (
	"reflect"
	"testing"
	"time"

	models "lectern/internal/domain/models/lesson"
	"lectern/internal/layout"
)

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func block(id, slot string, order int, createdOffset time.Duration) models.Block {
	return models.Block{
		ID:         id,
		VersionID:  "ver-1",
		Type:       models.BlockTypeText,
		SlotID:     slot,
		OrderIndex: order,
		CreatedAt:  base.Add(createdOffset),
	}
}

func blockIDs(blocks []models.Block) []string {
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return ids
}

func TestAssemble_SplitLayout(t *testing.T) {
	v := version("ver-1", 2, models.StatusPublished)
	v.LayoutType = models.LayoutSplit
	blocks := []models.Block{
		block("r2", "right", 1, 0),
		block("l1", "left", 0, 0),
		block("r1", "right", 0, 0),
	}

	doc, diag := Assemble(layout.Default(), v, blocks, nil)

	if doc.Layout.NodeType != models.LayoutSplit {
		t.Errorf("node type = %s, want split", doc.Layout.NodeType)
	}
	if got := blockIDs(doc.Slots["left"]); !reflect.DeepEqual(got, []string{"l1"}) {
		t.Errorf("left = %v", got)
	}
	if got := blockIDs(doc.Slots["right"]); !reflect.DeepEqual(got, []string{"r1", "r2"}) {
		t.Errorf("right = %v", got)
	}
	if diag.HasWarnings() {
		t.Errorf("unexpected diagnostics: %+v", diag)
	}
	if doc.VersionID != "ver-1" || doc.VersionNumber != 2 || doc.LessonID != "lesson-1" {
		t.Errorf("document identity not copied from version: %+v", doc)
	}
}

func TestAssemble_EverySlotPresentWhenEmpty(t *testing.T) {
	v := version("ver-1", 1, models.StatusDraft)
	v.LayoutType = models.LayoutGrid

	doc, diag := Assemble(layout.Default(), v, nil, nil)

	for _, id := range []string{"grid-1", "grid-2", "grid-3", "grid-4"} {
		group, ok := doc.Slots[id]
		if !ok {
			t.Errorf("slot %s missing", id)
			continue
		}
		if group == nil || len(group) != 0 {
			t.Errorf("slot %s should be an empty list, got %#v", id, group)
		}
	}
	if len(doc.Slots) != 4 {
		t.Errorf("expected 4 slots, got %d", len(doc.Slots))
	}
	if diag.OrphanedBlocks == nil {
		t.Error("orphaned blocks should be an empty list, not nil")
	}
}

func TestAssemble_TiesBrokenByCreatedAt(t *testing.T) {
	v := version("ver-1", 1, models.StatusDraft)
	blocks := []models.Block{
		block("later", "main", 0, 2*time.Second),
		block("earlier", "main", 0, time.Second),
		block("last", "main", 3, 0),
	}

	doc, _ := Assemble(layout.Default(), v, blocks, nil)

	want := []string{"earlier", "later", "last"}
	if got := blockIDs(doc.Slots["main"]); !reflect.DeepEqual(got, want) {
		t.Errorf("main = %v, want %v", got, want)
	}
}

func TestAssemble_OrphanedBlocksReported(t *testing.T) {
	v := version("ver-1", 1, models.StatusDraft)
	v.LayoutType = models.LayoutSplit
	blocks := []models.Block{
		block("kept", "left", 0, 0),
		block("lost", "main", 0, 0),
	}

	doc, diag := Assemble(layout.Default(), v, blocks, nil)

	if got := blockIDs(diag.OrphanedBlocks); !reflect.DeepEqual(got, []string{"lost"}) {
		t.Errorf("orphaned = %v", got)
	}
	for slot, group := range doc.Slots {
		for _, b := range group {
			if b.ID == "lost" {
				t.Errorf("orphaned block rendered in slot %s", slot)
			}
		}
	}
}

func TestAssemble_UnknownLayoutFallsBackToSingle(t *testing.T) {
	v := version("ver-1", 1, models.StatusDraft)
	v.LayoutType = models.LayoutType("three-column")

	doc, _ := Assemble(layout.Default(), v, []models.Block{block("b1", "main", 0, 0)}, nil)

	if doc.Layout.NodeType != models.LayoutSingle {
		t.Errorf("node type = %s, want single", doc.Layout.NodeType)
	}
	if got := blockIDs(doc.Slots["main"]); !reflect.DeepEqual(got, []string{"b1"}) {
		t.Errorf("main = %v", got)
	}
}

func TestAssemble_DeterministicAndNonMutating(t *testing.T) {
	v := version("ver-1", 1, models.StatusDraft)
	v.LayoutType = models.LayoutStacked
	blocks := []models.Block{
		block("c", "bottom", 0, 0),
		block("b", "top", 1, 0),
		block("a", "top", 0, 0),
		block("x", "nowhere", 0, 0),
	}
	assets := []models.Asset{{ID: "asset-1", VersionID: "ver-1", Type: models.AssetTypeImage}}
	original := make([]models.Block, len(blocks))
	copy(original, blocks)

	doc1, diag1 := Assemble(layout.Default(), v, blocks, assets)
	doc2, diag2 := Assemble(layout.Default(), v, blocks, assets)

	if !reflect.DeepEqual(doc1, doc2) || !reflect.DeepEqual(diag1, diag2) {
		t.Error("identical inputs produced different output")
	}
	if !reflect.DeepEqual(blocks, original) {
		t.Error("Assemble reordered its input")
	}
	if len(doc1.Assets) != 1 || doc1.Assets[0].ID != "asset-1" {
		t.Errorf("assets = %+v", doc1.Assets)
	}
}

func TestAssemble_BlockMapsDetachedFromInput(t *testing.T) {
	v := version("ver-1", 1, models.StatusPublished)
	placed := block("b1", "main", 0, 0)
	placed.Content = map[string]interface{}{"text": "Photosynthesis"}
	placed.Settings = map[string]interface{}{"align": "left"}
	orphan := block("b2", "sidebar", 0, 0)
	orphan.Content = map[string]interface{}{"text": "stale"}
	blocks := []models.Block{placed, orphan}

	doc, diag := Assemble(layout.Default(), v, blocks, nil)
	doc.Slots["main"][0].Content["text"] = "rewritten"
	doc.Slots["main"][0].Settings["align"] = "right"
	diag.OrphanedBlocks[0].Content["text"] = "rewritten"

	if blocks[0].Content["text"] != "Photosynthesis" || blocks[0].Settings["align"] != "left" {
		t.Errorf("placed block input changed: %+v", blocks[0])
	}
	if blocks[1].Content["text"] != "stale" {
		t.Errorf("orphaned block input changed: %+v", blocks[1])
	}
}

func TestOrphanedSlotIDs(t *testing.T) {
	blocks := []models.Block{
		block("a", "left", 0, 0),
		block("b", "right", 0, 0),
		block("c", "left", 1, 0),
		block("d", "main", 0, 0),
	}

	got := orphanedSlotIDs(layout.Default(), models.LayoutSingle, blocks)

	if want := []string{"left", "right"}; !reflect.DeepEqual(got, want) {
		t.Errorf("orphanedSlotIDs = %v, want %v", got, want)
	}
}
