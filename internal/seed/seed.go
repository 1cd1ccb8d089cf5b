// Package seed loads a YAML course fixture and creates it through the lesson services.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	models "lectern/internal/domain/models/lesson"
	lessonSvc "lectern/internal/domain/services/lesson"
	serviceLesson "lectern/internal/service/lesson"

	"gopkg.in/yaml.v3"
)

//go:embed course.yaml
var defaultFixture []byte

// Fixture is a course outline with authored versions and sample progress
type Fixture struct {
	CourseID string            `yaml:"course_id"`
	Sections []SectionFixture  `yaml:"sections"`
	Progress []ProgressFixture `yaml:"progress"`
}

type SectionFixture struct {
	ID      string          `yaml:"id"`
	Lessons []LessonFixture `yaml:"lessons"`
}

type LessonFixture struct {
	Title     string           `yaml:"title"`
	IsPreview bool             `yaml:"is_preview"`
	Versions  []VersionFixture `yaml:"versions"`
}

// VersionFixture is created as a draft and published when Publish is set.
// Versions are created in order, so a later published version archives an earlier one.
type VersionFixture struct {
	LayoutType string                 `yaml:"layout_type"`
	Publish    bool                   `yaml:"publish"`
	Metadata   models.VersionMetadata `yaml:"metadata"`
	Blocks     []BlockFixture         `yaml:"blocks"`
	Assets     []AssetFixture         `yaml:"assets"`
}

type BlockFixture struct {
	Type     string                 `yaml:"type"`
	SlotID   string                 `yaml:"slot_id"`
	Content  map[string]interface{} `yaml:"content"`
	Settings map[string]interface{} `yaml:"settings"`
}

type AssetFixture struct {
	Type       string  `yaml:"type"`
	Filename   string  `yaml:"filename"`
	URL        string  `yaml:"url"`
	PreviewURL *string `yaml:"preview_url"`
	FileSize   int64   `yaml:"file_size"`
}

// ProgressFixture references its lesson by title
type ProgressFixture struct {
	StudentID   string `yaml:"student_id"`
	Lesson      string `yaml:"lesson"`
	Progress    int    `yaml:"progress"`
	IsCompleted bool   `yaml:"is_completed"`
}

// Summary counts what a seed run created
type Summary struct {
	Lessons   int
	Versions  int
	Published int
	Blocks    int
	Assets    int
	Progress  int
}

// DefaultFixture parses the embedded course fixture
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// ParseFixture decodes a fixture document
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if len(f.Sections) == 0 {
		return nil, fmt.Errorf("fixture has no sections")
	}
	return &f, nil
}

// Seeder creates fixtures through the services, so every write passes the same validation as the API
type Seeder struct {
	services *serviceLesson.Services
	logger   *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(services *serviceLesson.Services, logger *slog.Logger) *Seeder {
	return &Seeder{services: services, logger: logger}
}

// Run seeds the fixture. It stops at the first failure.
func (s *Seeder) Run(ctx context.Context, f *Fixture) (*Summary, error) {
	var sum Summary
	lessonIDs := make(map[string]string)

	for _, section := range f.Sections {
		for position, lf := range section.Lessons {
			l, err := s.services.Lesson.CreateLesson(ctx, &lessonSvc.CreateLessonRequest{
				SectionID: section.ID,
				CourseID:  f.CourseID,
				Title:     lf.Title,
				Position:  position,
				IsPreview: lf.IsPreview,
			})
			if err != nil {
				return &sum, fmt.Errorf("lesson %q: %w", lf.Title, err)
			}
			lessonIDs[lf.Title] = l.ID
			sum.Lessons++

			for i, vf := range lf.Versions {
				if err := s.seedVersion(ctx, l.ID, vf, &sum); err != nil {
					return &sum, fmt.Errorf("lesson %q version %d: %w", lf.Title, i+1, err)
				}
			}

			s.logger.Info("seeded lesson",
				"id", l.ID,
				"section_id", section.ID,
				"title", l.Title,
				"versions", len(lf.Versions),
			)
		}
	}

	for _, pf := range f.Progress {
		lessonID, ok := lessonIDs[pf.Lesson]
		if !ok {
			return &sum, fmt.Errorf("progress references unknown lesson %q", pf.Lesson)
		}
		if _, err := s.services.Progress.RecordProgress(ctx, &lessonSvc.RecordProgressRequest{
			StudentID:   pf.StudentID,
			LessonID:    lessonID,
			Progress:    pf.Progress,
			IsCompleted: pf.IsCompleted,
		}); err != nil {
			return &sum, fmt.Errorf("progress for %q: %w", pf.Lesson, err)
		}
		sum.Progress++
	}

	return &sum, nil
}

func (s *Seeder) seedVersion(ctx context.Context, lessonID string, vf VersionFixture, sum *Summary) error {
	metadata := vf.Metadata
	req := &lessonSvc.CreateVersionRequest{
		LessonID: lessonID,
		Metadata: &metadata,
	}
	if vf.LayoutType != "" {
		layoutType := vf.LayoutType
		req.LayoutType = &layoutType
	}

	v, err := s.services.Version.CreateVersion(ctx, req)
	if err != nil {
		return err
	}
	sum.Versions++

	for _, bf := range vf.Blocks {
		if _, err := s.services.Content.AddBlock(ctx, v.ID, &lessonSvc.AddBlockRequest{
			Type:     bf.Type,
			SlotID:   bf.SlotID,
			Content:  bf.Content,
			Settings: bf.Settings,
		}); err != nil {
			return fmt.Errorf("block in slot %q: %w", bf.SlotID, err)
		}
		sum.Blocks++
	}

	for _, af := range vf.Assets {
		if _, err := s.services.Content.AttachAsset(ctx, v.ID, &lessonSvc.AttachAssetRequest{
			Type:       af.Type,
			Filename:   af.Filename,
			URL:        af.URL,
			PreviewURL: af.PreviewURL,
			FileSize:   af.FileSize,
		}); err != nil {
			return fmt.Errorf("asset %q: %w", af.Filename, err)
		}
		sum.Assets++
	}

	if vf.Publish {
		if _, err := s.services.Version.PublishVersion(ctx, v.ID); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		sum.Published++
	}

	return nil
}
