package lesson

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"lectern/internal/domain"
	models "lectern/internal/domain/models/lesson"
)

func version(id string, n int, status models.VersionStatus) models.LessonVersion {
	return models.LessonVersion{
		ID:            id,
		LessonID:      "lesson-1",
		VersionNumber: n,
		Status:        status,
		LayoutType:    models.LayoutSingle,
	}
}

func TestSelectVersion(t *testing.T) {
	tests := []struct {
		name     string
		versions []models.LessonVersion
		view     models.ViewContext
		wantID   string
		wantErr  error
	}{
		{
			name: "student gets published over newer draft",
			versions: []models.LessonVersion{
				version("v1", 1, models.StatusPublished),
				version("v2", 2, models.StatusDraft),
			},
			view:   models.ViewStudent,
			wantID: "v1",
		},
		{
			name: "author gets newest draft",
			versions: []models.LessonVersion{
				version("v1", 1, models.StatusPublished),
				version("v2", 2, models.StatusDraft),
				version("v3", 3, models.StatusDraft),
			},
			view:   models.ViewAuthor,
			wantID: "v3",
		},
		{
			name: "author falls back to published",
			versions: []models.LessonVersion{
				version("v1", 1, models.StatusArchived),
				version("v2", 2, models.StatusPublished),
			},
			view:   models.ViewAuthor,
			wantID: "v2",
		},
		{
			name: "author falls back to newest archived",
			versions: []models.LessonVersion{
				version("v1", 1, models.StatusArchived),
				version("v2", 2, models.StatusArchived),
			},
			view:   models.ViewAuthor,
			wantID: "v2",
		},
		{
			name: "student with only drafts is not found",
			versions: []models.LessonVersion{
				version("v1", 1, models.StatusDraft),
			},
			view:    models.ViewStudent,
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "author with no versions is not found",
			view:    models.ViewAuthor,
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "student with no versions is not found",
			view:    models.ViewStudent,
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectVersion("lesson-1", tt.versions, tt.view)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				var httpErr domain.HTTPError
				if !errors.As(err, &httpErr) || httpErr.StatusCode() != http.StatusNotFound {
					t.Errorf("expected a 404 HTTPError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("selected %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestSelectVersion_ReturnsCopy(t *testing.T) {
	versions := []models.LessonVersion{version("v1", 1, models.StatusPublished)}

	got, err := SelectVersion("lesson-1", versions, models.ViewStudent)
	if err != nil {
		t.Fatal(err)
	}
	got.Status = models.StatusArchived

	if versions[0].Status != models.StatusPublished {
		t.Error("mutating the selected version changed the input")
	}
}

func TestNextVersionNumber(t *testing.T) {
	if n := NextVersionNumber(nil); n != 1 {
		t.Errorf("first version number = %d, want 1", n)
	}

	// Gaps and ordering do not matter; only the maximum does
	versions := []models.LessonVersion{
		version("a", 4, models.StatusArchived),
		version("b", 2, models.StatusArchived),
		version("c", 7, models.StatusDraft),
	}
	if n := NextVersionNumber(versions); n != 8 {
		t.Errorf("NextVersionNumber = %d, want 8", n)
	}
}

func TestNextVersionNumber_StrictlyIncreases(t *testing.T) {
	var versions []models.LessonVersion
	last := 0
	for i := 0; i < 20; i++ {
		n := NextVersionNumber(versions)
		if n <= last {
			t.Fatalf("version number %d did not increase past %d", n, last)
		}
		last = n
		versions = append(versions, NewDraft("lesson-1", n, models.LayoutSingle, models.VersionMetadata{}, time.Now()))
	}
}

func TestNewDraft(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	meta := models.VersionMetadata{Objective: "learn", EstimatedTime: 10}

	v := NewDraft("lesson-1", 3, models.LayoutSplit, meta, now)

	if v.Status != models.StatusDraft {
		t.Errorf("status = %s, want draft", v.Status)
	}
	if v.PublishedAt != nil {
		t.Error("draft must not have published_at")
	}
	if v.VersionNumber != 3 || v.LayoutType != models.LayoutSplit || v.Metadata != meta {
		t.Errorf("unexpected draft: %+v", v)
	}
	if !v.CreatedAt.Equal(now) || !v.UpdatedAt.Equal(now) {
		t.Error("timestamps should be set to now")
	}
}

func TestPublish_ArchivesPreviousPublished(t *testing.T) {
	versions := []models.LessonVersion{
		version("v1", 1, models.StatusPublished),
		version("v2", 2, models.StatusDraft),
	}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	result, err := Publish(versions, "v2", now)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if result.Published.ID != "v2" || result.Published.Status != models.StatusPublished {
		t.Errorf("published = %+v", result.Published)
	}
	if result.Published.PublishedAt == nil || !result.Published.PublishedAt.Equal(now) {
		t.Error("published_at should be stamped")
	}
	if len(result.Archived) != 1 || result.Archived[0].ID != "v1" || result.Archived[0].Status != models.StatusArchived {
		t.Fatalf("archived = %+v", result.Archived)
	}

	// Input untouched
	if versions[0].Status != models.StatusPublished || versions[1].Status != models.StatusDraft {
		t.Error("Publish modified its input")
	}

	// Applying the result leaves exactly one published version
	applied := []models.LessonVersion{result.Archived[0], result.Published}
	published := 0
	for _, v := range applied {
		if v.Status == models.StatusPublished {
			published++
		}
	}
	if published != 1 {
		t.Errorf("expected exactly one published version, got %d", published)
	}
}

func TestPublish_FirstPublishArchivesNothing(t *testing.T) {
	result, err := Publish([]models.LessonVersion{version("v1", 1, models.StatusDraft)}, "v1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Archived) != 0 {
		t.Errorf("expected nothing archived, got %d", len(result.Archived))
	}
}

func TestPublish_RejectsIllegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		status models.VersionStatus
	}{
		{"already published", models.StatusPublished},
		{"archived", models.StatusArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			versions := []models.LessonVersion{version("v1", 1, tt.status)}

			_, err := Publish(versions, "v1", time.Now())

			var stateErr *domain.InvalidStateError
			if !errors.As(err, &stateErr) {
				t.Fatalf("expected InvalidStateError, got %v", err)
			}
			if stateErr.From != string(tt.status) || stateErr.Action != string(models.ActionPublish) {
				t.Errorf("unexpected error fields: %+v", stateErr)
			}
			if !errors.Is(err, domain.ErrInvalidState) {
				t.Error("error should match ErrInvalidState")
			}
		})
	}
}

func TestPublish_UnknownVersion(t *testing.T) {
	_, err := Publish([]models.LessonVersion{version("v1", 1, models.StatusDraft)}, "missing", time.Now())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckAction(t *testing.T) {
	tests := []struct {
		status  models.VersionStatus
		action  models.VersionAction
		allowed bool
	}{
		{models.StatusDraft, models.ActionEdit, true},
		{models.StatusDraft, models.ActionPublish, true},
		{models.StatusDraft, models.ActionArchive, false},
		{models.StatusPublished, models.ActionEdit, false},
		{models.StatusPublished, models.ActionPublish, false},
		{models.StatusPublished, models.ActionArchive, true},
		{models.StatusArchived, models.ActionEdit, false},
		{models.StatusArchived, models.ActionPublish, false},
		{models.StatusArchived, models.ActionArchive, false},
	}

	for _, tt := range tests {
		v := version("v1", 1, tt.status)
		err := CheckAction(&v, tt.action)
		if tt.allowed && err != nil {
			t.Errorf("%s/%s: unexpected error %v", tt.status, tt.action, err)
		}
		if !tt.allowed && !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("%s/%s: expected ErrInvalidState, got %v", tt.status, tt.action, err)
		}
	}
}
