package lesson

import (
	"reflect"
	"testing"
	"time"

	models "lectern/internal/domain/models/lesson"
)

func lessons(ids ...string) []models.Lesson {
	out := make([]models.Lesson, len(ids))
	for i, id := range ids {
		out[i] = models.Lesson{ID: id, Title: "Lesson " + id, Position: i}
	}
	return out
}

func TestMergeProgress(t *testing.T) {
	accessed := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	records := []models.ProgressRecord{
		{StudentID: "s1", LessonID: "2", Progress: 50, LastAccessed: &accessed},
	}

	merged := MergeProgress(lessons("1", "2", "3"), records, nil)

	if len(merged) != 3 {
		t.Fatalf("expected 3 lessons, got %d", len(merged))
	}
	for i, want := range []string{"1", "2", "3"} {
		if merged[i].ID != want {
			t.Errorf("position %d: got lesson %s, want %s", i, merged[i].ID, want)
		}
	}

	if merged[1].Progress != 50 || merged[1].IsCompleted || merged[1].LastAccessed == nil {
		t.Errorf("lesson 2 overlay = %+v", merged[1].ProgressOverlay)
	}
	for _, i := range []int{0, 2} {
		if merged[i].ProgressOverlay != (models.ProgressOverlay{}) {
			t.Errorf("lesson %s should have the default overlay, got %+v", merged[i].ID, merged[i].ProgressOverlay)
		}
	}
}

func TestMergeProgress_FirstRecordWins(t *testing.T) {
	records := []models.ProgressRecord{
		{LessonID: "1", Progress: 30},
		{LessonID: "1", Progress: 90, IsCompleted: true},
	}

	merged := MergeProgress(lessons("1"), records, nil)

	if merged[0].Progress != 30 || merged[0].IsCompleted {
		t.Errorf("expected the first record to win, got %+v", merged[0].ProgressOverlay)
	}
}

func TestMergeProgress_Idempotent(t *testing.T) {
	records := []models.ProgressRecord{{LessonID: "2", Progress: 10}}
	in := lessons("1", "2")

	first := MergeProgress(in, records, nil)
	second := MergeProgress(in, records, nil)

	if !reflect.DeepEqual(first, second) {
		t.Error("merging twice gave different results")
	}
}

func TestMergeProgress_Empty(t *testing.T) {
	merged := MergeProgress(nil, []models.ProgressRecord{{LessonID: "x"}}, nil)
	if merged == nil || len(merged) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", merged)
	}
}

func TestMergeProgress_PreviewEligibility(t *testing.T) {
	in := lessons("flagged", "via-version", "draft-flag", "plain")
	in[0].IsPreview = true

	published := map[string]models.LessonVersion{
		"via-version": {LessonID: "via-version", Status: models.StatusPublished, Metadata: models.VersionMetadata{IsPreview: true}},
		"draft-flag":  {LessonID: "draft-flag", Status: models.StatusDraft, Metadata: models.VersionMetadata{IsPreview: true}},
		"plain":       {LessonID: "plain", Status: models.StatusPublished},
	}

	merged := MergeProgress(in, nil, published)

	want := []bool{true, true, false, false}
	for i, w := range want {
		if merged[i].PreviewEligible != w {
			t.Errorf("%s: preview eligible = %v, want %v", merged[i].ID, merged[i].PreviewEligible, w)
		}
	}
}

func TestPreviewEligible(t *testing.T) {
	tests := []struct {
		name      string
		lesson    models.Lesson
		published *models.LessonVersion
		want      bool
	}{
		{"lesson flag", models.Lesson{IsPreview: true}, nil, true},
		{"no flag no version", models.Lesson{}, nil, false},
		{"published version flag", models.Lesson{}, &models.LessonVersion{Status: models.StatusPublished, Metadata: models.VersionMetadata{IsPreview: true}}, true},
		{"archived version flag", models.Lesson{}, &models.LessonVersion{Status: models.StatusArchived, Metadata: models.VersionMetadata{IsPreview: true}}, false},
		{"published without flag", models.Lesson{}, &models.LessonVersion{Status: models.StatusPublished}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreviewEligible(tt.lesson, tt.published); got != tt.want {
				t.Errorf("PreviewEligible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeDocumentProgress(t *testing.T) {
	doc := models.RenderableDocument{
		LessonID: "lesson-1",
		Status:   models.StatusPublished,
		Metadata: models.VersionMetadata{IsPreview: true},
	}

	t.Run("matching record", func(t *testing.T) {
		record := &models.ProgressRecord{LessonID: "lesson-1", Progress: 75}
		got := MergeDocumentProgress(doc, models.Lesson{ID: "lesson-1"}, record)
		if got.Progress != 75 {
			t.Errorf("progress = %d, want 75", got.Progress)
		}
		if !got.PreviewEligible {
			t.Error("published preview version should be eligible")
		}
	})

	t.Run("record for another lesson is ignored", func(t *testing.T) {
		record := &models.ProgressRecord{LessonID: "lesson-2", Progress: 75, IsCompleted: true}
		got := MergeDocumentProgress(doc, models.Lesson{ID: "lesson-1"}, record)
		if got.ProgressOverlay != (models.ProgressOverlay{}) {
			t.Errorf("expected default overlay, got %+v", got.ProgressOverlay)
		}
	})

	t.Run("draft document flag does not count", func(t *testing.T) {
		draft := doc
		draft.Status = models.StatusDraft
		got := MergeDocumentProgress(draft, models.Lesson{ID: "lesson-1"}, nil)
		if got.PreviewEligible {
			t.Error("draft metadata should not grant preview eligibility")
		}
	})
}
