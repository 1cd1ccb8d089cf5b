package lesson

import (
	models "lectern/internal/domain/models/lesson"
)

// PreviewEligible reports whether a non-enrolled visitor may view the lesson:
// the lesson's own flag, or the preview flag of its published version.
// This is a signal only; access enforcement happens elsewhere.
func PreviewEligible(lesson models.Lesson, published *models.LessonVersion) bool {
	if lesson.IsPreview {
		return true
	}
	return published != nil &&
		published.Status == models.StatusPublished &&
		published.Metadata.IsPreview
}

// overlayFrom converts a progress record into an overlay; nil yields defaults
func overlayFrom(record *models.ProgressRecord) models.ProgressOverlay {
	if record == nil {
		return models.ProgressOverlay{}
	}
	return models.ProgressOverlay{
		IsCompleted:  record.IsCompleted,
		Progress:     record.Progress,
		LastAccessed: record.LastAccessed,
	}
}

// MergeProgress joins progress records onto lessons by lesson id.
//
// Output order is input order. Lessons without a record get the default
// overlay (not completed, 0 progress, no last access). When several records
// share a lesson id the first one wins. published maps lesson id to its
// published version and may be nil.
func MergeProgress(lessons []models.Lesson, records []models.ProgressRecord, published map[string]models.LessonVersion) []models.AugmentedLesson {
	byLesson := make(map[string]*models.ProgressRecord, len(records))
	for i := range records {
		if _, dup := byLesson[records[i].LessonID]; dup {
			continue
		}
		byLesson[records[i].LessonID] = &records[i]
	}

	out := make([]models.AugmentedLesson, len(lessons))
	for i, l := range lessons {
		var current *models.LessonVersion
		if v, ok := published[l.ID]; ok {
			current = &v
		}
		out[i] = models.AugmentedLesson{
			Lesson:          l,
			ProgressOverlay: overlayFrom(byLesson[l.ID]),
			PreviewEligible: PreviewEligible(l, current),
		}
	}
	return out
}

// MergeDocumentProgress overlays one progress record onto an assembled
// document. A record for a different lesson is ignored.
func MergeDocumentProgress(doc models.RenderableDocument, lesson models.Lesson, record *models.ProgressRecord) models.AugmentedDocument {
	if record != nil && record.LessonID != doc.LessonID {
		record = nil
	}

	var current *models.LessonVersion
	if doc.Status == models.StatusPublished {
		current = &models.LessonVersion{Status: doc.Status, Metadata: doc.Metadata}
	}

	return models.AugmentedDocument{
		RenderableDocument: doc,
		ProgressOverlay:    overlayFrom(record),
		PreviewEligible:    PreviewEligible(lesson, current),
	}
}
