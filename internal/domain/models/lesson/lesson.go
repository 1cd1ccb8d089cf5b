package lesson

import (
	"time"
)

// Lesson is the identity anchor that owns a lesson's versions.
// Deleting a lesson cascades to its versions, blocks and assets.
type Lesson struct {
	ID        string    `json:"id" db:"id"`
	SectionID string    `json:"section_id" db:"section_id"`
	CourseID  string    `json:"course_id" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	Position  int       `json:"position" db:"position"`     // Order within the section
	IsPreview bool      `json:"is_preview" db:"is_preview"` // Set by course authoring, independent of versions
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
