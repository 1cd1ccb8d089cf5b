package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"lectern/internal/domain"
	models "lectern/internal/domain/models/lesson"
)

type fixture struct {
	store    *Store
	lessons  *LessonRepository
	versions *VersionRepository
	blocks   *BlockRepository
	assets   *AssetRepository
	progress *ProgressRepository
	tx       *TransactionManager
}

func newFixture() *fixture {
	store := NewStore()
	return &fixture{
		store:    store,
		lessons:  &LessonRepository{store: store},
		versions: &VersionRepository{store: store},
		blocks:   &BlockRepository{store: store},
		assets:   &AssetRepository{store: store},
		progress: &ProgressRepository{store: store},
		tx:       &TransactionManager{store: store},
	}
}

func (f *fixture) lesson(t *testing.T) *models.Lesson {
	t.Helper()
	l := &models.Lesson{SectionID: "sec", Title: "Lesson"}
	if err := f.lessons.Create(context.Background(), l); err != nil {
		t.Fatal(err)
	}
	return l
}

func (f *fixture) version(t *testing.T, lessonID string, n int, status models.VersionStatus) *models.LessonVersion {
	t.Helper()
	v := &models.LessonVersion{LessonID: lessonID, VersionNumber: n, Status: status, LayoutType: models.LayoutSingle}
	if err := f.versions.Create(context.Background(), v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestLessonRepository_CreateAssignsIDAndTimestamps(t *testing.T) {
	f := newFixture()
	l := f.lesson(t)

	if l.ID == "" || l.CreatedAt.IsZero() || !l.UpdatedAt.Equal(l.CreatedAt) {
		t.Errorf("unexpected lesson: %+v", l)
	}

	dup := &models.Lesson{ID: l.ID, Title: "again"}
	if err := f.lessons.Create(context.Background(), dup); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestLessonRepository_ListBySectionOrdersByPosition(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for _, l := range []*models.Lesson{
		{ID: "c", SectionID: "sec", Position: 2},
		{ID: "a", SectionID: "sec", Position: 0},
		{ID: "b2", SectionID: "sec", Position: 1},
		{ID: "b1", SectionID: "sec", Position: 1},
		{ID: "x", SectionID: "other", Position: 0},
	} {
		if err := f.lessons.Create(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	got, err := f.lessons.ListBySection(ctx, "sec")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b2", "b1", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %d lessons, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestVersionRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.lesson(t)
	f.version(t, l.ID, 1, models.StatusPublished)

	t.Run("duplicate version number", func(t *testing.T) {
		v := &models.LessonVersion{LessonID: l.ID, VersionNumber: 1, Status: models.StatusDraft}
		if err := f.versions.Create(ctx, v); !errors.Is(err, domain.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("second published version", func(t *testing.T) {
		v := f.version(t, l.ID, 2, models.StatusDraft)
		v.Status = models.StatusPublished
		if err := f.versions.Update(ctx, v); !errors.Is(err, domain.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
		stored, _ := f.versions.GetByID(ctx, v.ID)
		if stored.Status != models.StatusDraft {
			t.Error("rejected update was applied")
		}
	})

	t.Run("unknown lesson", func(t *testing.T) {
		v := &models.LessonVersion{LessonID: "missing", VersionNumber: 1}
		if err := f.versions.Create(ctx, v); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestVersionRepository_ListPublishedByLessons(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.lesson(t)
	b := f.lesson(t)
	f.version(t, a.ID, 1, models.StatusArchived)
	pub := f.version(t, a.ID, 2, models.StatusPublished)
	f.version(t, b.ID, 1, models.StatusDraft)

	got, err := f.versions.ListPublishedByLessons(ctx, []string{a.ID, b.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != pub.ID {
		t.Errorf("published = %+v", got)
	}
}

func TestBlockRepository_SlotOrderUnique(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.lesson(t)
	v := f.version(t, l.ID, 1, models.StatusDraft)

	first := &models.Block{VersionID: v.ID, Type: "text", SlotID: "main", OrderIndex: 0}
	if err := f.blocks.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	clash := &models.Block{VersionID: v.ID, Type: "text", SlotID: "main", OrderIndex: 0}
	if err := f.blocks.Create(ctx, clash); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	// The same index in another slot is fine
	other := &models.Block{VersionID: v.ID, Type: "text", SlotID: "aside", OrderIndex: 0}
	if err := f.blocks.Create(ctx, other); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	other.SlotID = "main"
	if err := f.blocks.Update(ctx, other); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("move into occupied index: expected ErrConflict, got %v", err)
	}
}

func TestLessonRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.lesson(t)
	keep := f.lesson(t)
	v := f.version(t, l.ID, 1, models.StatusDraft)
	kv := f.version(t, keep.ID, 1, models.StatusDraft)

	b := &models.Block{VersionID: v.ID, Type: "text", SlotID: "main"}
	kb := &models.Block{VersionID: kv.ID, Type: "text", SlotID: "main"}
	a := &models.Asset{VersionID: v.ID, Type: models.AssetTypeImage}
	for _, block := range []*models.Block{b, kb} {
		if err := f.blocks.Create(ctx, block); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.assets.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := f.progress.Upsert(ctx, &models.ProgressRecord{StudentID: "s1", LessonID: l.ID, Progress: 10}); err != nil {
		t.Fatal(err)
	}

	if err := f.lessons.Delete(ctx, l.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := f.versions.GetByID(ctx, v.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("version survived")
	}
	if _, err := f.blocks.GetByID(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("block survived")
	}
	if _, err := f.assets.GetByID(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("asset survived")
	}
	records, _ := f.progress.ListByStudent(ctx, "s1", []string{l.ID})
	if len(records) != 0 {
		t.Error("progress survived")
	}
	if _, err := f.blocks.GetByID(ctx, kb.ID); err != nil {
		t.Errorf("other lesson's block was deleted: %v", err)
	}
}

func TestProgressRepository_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.lesson(t)

	for _, p := range []int{10, 80} {
		if err := f.progress.Upsert(ctx, &models.ProgressRecord{StudentID: "s1", LessonID: l.ID, Progress: p}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := f.progress.ListByStudent(ctx, "s1", []string{l.ID, "unknown"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Progress != 80 {
		t.Errorf("records = %+v", records)
	}

	if err := f.progress.Upsert(ctx, &models.ProgressRecord{StudentID: "s1", LessonID: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.lesson(t)
	boom := errors.New("boom")

	err := f.tx.ExecTx(ctx, func(txCtx context.Context) error {
		v := &models.LessonVersion{LessonID: l.ID, VersionNumber: 1, Status: models.StatusDraft}
		if err := f.versions.Create(txCtx, v); err != nil {
			return err
		}
		l.Title = "renamed"
		if err := f.lessons.Update(txCtx, l); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	versions, _ := f.versions.ListByLesson(ctx, l.ID)
	if len(versions) != 0 {
		t.Errorf("rolled back version still present: %+v", versions)
	}
	stored, _ := f.lessons.GetByID(ctx, l.ID)
	if stored.Title != "Lesson" {
		t.Errorf("rolled back title = %q", stored.Title)
	}
}

func TestTransactionManager_CommitsAndNests(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.lesson(t)

	err := f.tx.ExecTx(ctx, func(outer context.Context) error {
		return f.tx.ExecTx(outer, func(inner context.Context) error {
			return f.versions.Create(inner, &models.LessonVersion{LessonID: l.ID, VersionNumber: 1, Status: models.StatusDraft})
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	versions, _ := f.versions.ListByLesson(ctx, l.ID)
	if len(versions) != 1 {
		t.Errorf("expected the committed version, got %d", len(versions))
	}
}

// failingTx runs a transaction that writes, holds the store for a while and
// then fails. started is closed once the transaction is running.
func (f *fixture) failingTx(t *testing.T, lessonID string) (started, done chan struct{}) {
	t.Helper()
	started = make(chan struct{})
	done = make(chan struct{})
	go func() {
		defer close(done)
		_ = f.tx.ExecTx(context.Background(), func(txCtx context.Context) error {
			v := &models.LessonVersion{LessonID: lessonID, VersionNumber: 1, Status: models.StatusDraft}
			if err := f.versions.Create(txCtx, v); err != nil {
				return err
			}
			close(started)
			time.Sleep(50 * time.Millisecond)
			return errors.New("boom")
		})
	}()
	return started, done
}

func TestTransactionManager_RollbackKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.lesson(t)
	gone := f.lesson(t)

	started, done := f.failingTx(t, l.ID)
	<-started

	created := &models.Lesson{SectionID: "sec", Title: "written during rollback"}
	if err := f.lessons.Create(ctx, created); err != nil {
		t.Fatal(err)
	}
	if err := f.lessons.Delete(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}
	<-done

	if _, err := f.lessons.GetByID(ctx, created.ID); err != nil {
		t.Errorf("lesson created outside the transaction was lost: %v", err)
	}
	if _, err := f.lessons.GetByID(ctx, gone.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("lesson deleted outside the transaction came back: %v", err)
	}
	versions, _ := f.versions.ListByLesson(ctx, l.ID)
	if len(versions) != 0 {
		t.Errorf("rolled back version still present: %+v", versions)
	}
}

func TestTransactionManager_ScopedToStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	other := newFixture()

	// A transaction on one store must not let writes to another skip its lock.
	err := f.tx.ExecTx(ctx, func(txCtx context.Context) error {
		if !f.store.inTx(txCtx) {
			t.Error("expected context to be inside the transaction")
		}
		if other.store.inTx(txCtx) {
			t.Error("transaction leaked to another store")
		}
		return other.lessons.Create(txCtx, &models.Lesson{SectionID: "sec", Title: "other"})
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestTransactionManager_ReadsSeeUncommittedWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.lesson(t)
	published := f.version(t, l.ID, 1, models.StatusPublished)

	boom := errors.New("boom")
	_ = f.tx.ExecTx(ctx, func(txCtx context.Context) error {
		archived := *published
		archived.Status = models.StatusArchived
		if err := f.versions.Update(txCtx, &archived); err != nil {
			return err
		}
		// Outside the transaction, the lesson briefly has nothing published.
		live, err := f.versions.ListPublishedByLessons(ctx, []string{l.ID})
		if err != nil {
			return err
		}
		if len(live) != 0 {
			t.Errorf("expected the uncommitted archive to be visible, got %+v", live)
		}
		return boom
	})

	live, _ := f.versions.ListPublishedByLessons(ctx, []string{l.ID})
	if len(live) != 1 || live[0].ID != published.ID {
		t.Errorf("after rollback published = %+v", live)
	}
}
