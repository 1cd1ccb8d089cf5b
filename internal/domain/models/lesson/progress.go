package lesson

import (
	"time"
)

// ProgressRecord is supplied by the progress collaborator for one (student, lesson) pair
type ProgressRecord struct {
	StudentID    string     `json:"student_id" db:"student_id"`
	LessonID     string     `json:"lesson_id" db:"lesson_id"`
	IsCompleted  bool       `json:"is_completed" db:"is_completed"`
	Progress     int        `json:"progress" db:"progress"` // 0-100 inclusive
	LastAccessed *time.Time `json:"last_accessed,omitempty" db:"last_accessed"`
}

// ProgressOverlay is the per-student view data merged onto a lesson at read time
type ProgressOverlay struct {
	IsCompleted  bool       `json:"is_completed"`
	Progress     int        `json:"progress"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
}

// AugmentedLesson is a lesson with its progress overlay and preview flag
type AugmentedLesson struct {
	Lesson
	ProgressOverlay
	PreviewEligible bool `json:"preview_eligible"`
}

// AugmentedDocument is an assembled document with its progress overlay and preview flag
type AugmentedDocument struct {
	RenderableDocument
	ProgressOverlay
	PreviewEligible bool `json:"preview_eligible"`
}
