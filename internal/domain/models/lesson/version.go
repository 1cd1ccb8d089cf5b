package lesson

import (
	"fmt"
	"time"
)

// VersionStatus is the lifecycle state of a LessonVersion
type VersionStatus string

const (
	StatusDraft     VersionStatus = "draft"
	StatusPublished VersionStatus = "published"
	StatusArchived  VersionStatus = "archived"
)

// VersionAction is an operation that may change a version's status
type VersionAction string

const (
	ActionEdit    VersionAction = "edit"
	ActionPublish VersionAction = "publish"
	ActionArchive VersionAction = "archive"
)

// versionTransitions is the complete lifecycle table. Anything absent is illegal.
// Archived has no outgoing transitions.
var versionTransitions = map[VersionStatus]map[VersionAction]VersionStatus{
	StatusDraft: {
		ActionEdit:    StatusDraft,
		ActionPublish: StatusPublished,
	},
	StatusPublished: {
		ActionArchive: StatusArchived,
	},
	StatusArchived: {},
}

// ParseVersionStatus converts a stored status string into a VersionStatus
func ParseVersionStatus(s string) (VersionStatus, error) {
	status := VersionStatus(s)
	if _, ok := versionTransitions[status]; !ok {
		return "", fmt.Errorf("unknown version status %q", s)
	}
	return status, nil
}

// Next returns the status reached by applying action, or false if the
// transition is not allowed from s.
func (s VersionStatus) Next(action VersionAction) (VersionStatus, bool) {
	next, ok := versionTransitions[s][action]
	return next, ok
}

// Allows reports whether action is legal from s
func (s VersionStatus) Allows(action VersionAction) bool {
	_, ok := s.Next(action)
	return ok
}

// IsTerminal reports whether no action is legal from s
func (s VersionStatus) IsTerminal() bool {
	return len(versionTransitions[s]) == 0
}

// Presentation holds renderer hints for the version's container
type Presentation struct {
	ContainerWidth string `json:"container_width,omitempty" yaml:"container_width,omitempty"`
	Gap            string `json:"gap,omitempty" yaml:"gap,omitempty"`
	Background     string `json:"background,omitempty" yaml:"background,omitempty"`
}

// VersionMetadata is stored as JSONB alongside the version
type VersionMetadata struct {
	Objective     string       `json:"objective,omitempty" yaml:"objective,omitempty"`
	EstimatedTime int          `json:"estimated_time" yaml:"estimated_time"` // Minutes
	IsOptional    bool         `json:"is_optional" yaml:"is_optional"`
	IsPreview     bool         `json:"is_preview" yaml:"is_preview"` // Version-level preview eligibility
	Presentation  Presentation `json:"presentation" yaml:"presentation"`
}

// LessonVersion is one authored snapshot of a lesson's layout and metadata.
// VersionNumber is unique per lesson and strictly increasing.
type LessonVersion struct {
	ID            string          `json:"id" db:"id"`
	LessonID      string          `json:"lesson_id" db:"lesson_id"`
	VersionNumber int             `json:"version_number" db:"version_number"`
	Status        VersionStatus   `json:"status" db:"status"`
	LayoutType    LayoutType      `json:"layout_type" db:"layout_type"`
	Metadata      VersionMetadata `json:"metadata" db:"metadata"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	PublishedAt   *time.Time      `json:"published_at,omitempty" db:"published_at"` // Set only on entering published
}

// ViewContext selects which version of a lesson is "current"
type ViewContext string

const (
	ViewStudent ViewContext = "student"
	ViewAuthor  ViewContext = "author"
)

// ParseViewContext converts a query parameter into a ViewContext.
// Empty input means the student view.
func ParseViewContext(s string) (ViewContext, error) {
	switch ViewContext(s) {
	case "", ViewStudent:
		return ViewStudent, nil
	case ViewAuthor:
		return ViewAuthor, nil
	default:
		return "", fmt.Errorf("unknown view %q (supported: student, author)", s)
	}
}
