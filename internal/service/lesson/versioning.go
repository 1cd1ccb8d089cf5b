package lesson

import (
	"fmt"
	"time"

	"lectern/internal/domain"
	models "lectern/internal/domain/models/lesson"
)

// SelectVersion picks the current version of a lesson for the given view.
//
// Student view: the published version, or domain.ErrNotFound if none exists.
// Author view: the newest draft, else the published version, else the newest
// archived version, so authors always resume the latest work in progress.
func SelectVersion(lessonID string, versions []models.LessonVersion, view models.ViewContext) (*models.LessonVersion, error) {
	var published, newestDraft, newestAny *models.LessonVersion

	for i := range versions {
		v := &versions[i]
		switch v.Status {
		case models.StatusPublished:
			if published == nil {
				published = v
			}
		case models.StatusDraft:
			if newestDraft == nil || v.VersionNumber > newestDraft.VersionNumber {
				newestDraft = v
			}
		}
		if newestAny == nil || v.VersionNumber > newestAny.VersionNumber {
			newestAny = v
		}
	}

	var selected *models.LessonVersion
	switch view {
	case models.ViewAuthor:
		switch {
		case newestDraft != nil:
			selected = newestDraft
		case published != nil:
			selected = published
		default:
			selected = newestAny
		}
		if selected == nil {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("lesson %s has no versions", lessonID)}
		}
	default:
		if published == nil {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("lesson %s has no published version", lessonID)}
		}
		selected = published
	}

	out := *selected
	return &out, nil
}

// NextVersionNumber returns max(existing version numbers) + 1, starting at 1
func NextVersionNumber(versions []models.LessonVersion) int {
	highest := 0
	for _, v := range versions {
		if v.VersionNumber > highest {
			highest = v.VersionNumber
		}
	}
	return highest + 1
}

// NewDraft builds a fresh draft version. PublishedAt is always nil.
func NewDraft(lessonID string, versionNumber int, layoutType models.LayoutType, metadata models.VersionMetadata, now time.Time) models.LessonVersion {
	return models.LessonVersion{
		LessonID:      lessonID,
		VersionNumber: versionNumber,
		Status:        models.StatusDraft,
		LayoutType:    layoutType,
		Metadata:      metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CheckAction returns an InvalidStateError if action is not legal for v
func CheckAction(v *models.LessonVersion, action models.VersionAction) error {
	if v.Status.Allows(action) {
		return nil
	}
	return &domain.InvalidStateError{
		ResourceType: "version",
		ResourceID:   v.ID,
		From:         string(v.Status),
		Action:       string(action),
	}
}

// PublishResult holds every version changed by a publish
type PublishResult struct {
	Published models.LessonVersion
	Archived  []models.LessonVersion // Previously published versions of the same lesson
}

// Publish computes the publish transition for versionID within one lesson's
// versions: the target becomes published and any published sibling becomes
// archived. The input is not modified; callers persist the result atomically.
func Publish(versions []models.LessonVersion, versionID string, now time.Time) (*PublishResult, error) {
	var target *models.LessonVersion
	for i := range versions {
		if versions[i].ID == versionID {
			target = &versions[i]
			break
		}
	}
	if target == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("version %s not found", versionID)}
	}
	if err := CheckAction(target, models.ActionPublish); err != nil {
		return nil, err
	}

	result := &PublishResult{Published: *target}
	result.Published.Status, _ = target.Status.Next(models.ActionPublish)
	publishedAt := now
	result.Published.PublishedAt = &publishedAt
	result.Published.UpdatedAt = now

	for _, v := range versions {
		if v.ID == versionID || v.LessonID != target.LessonID || v.Status != models.StatusPublished {
			continue
		}
		next, ok := v.Status.Next(models.ActionArchive)
		if !ok {
			return nil, CheckAction(&v, models.ActionArchive)
		}
		v.Status = next
		v.UpdatedAt = now
		result.Archived = append(result.Archived, v)
	}

	return result, nil
}
