package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dexusno/NorTrans/internal/queue"
	"github.com/dexusno/NorTrans/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job, err := store.Enqueue(ctx, queue.JobSpec{
		FileName:   "movie.srt",
		SourceLang: "en",
		TargetLang: "nb",
		Mode:       "api",
		Policy:     "lenient",
		InputPath:  "/tmp/movie.srt",
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected job ID to be assigned")
	}
	if job.Status != queue.StatusQueued {
		t.Fatalf("new job status = %q", job.Status)
	}

	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.FileName != "movie.srt" || fetched.TargetLang != "nb" {
		t.Fatalf("unexpected fetched job: %#v", fetched)
	}
}

func TestEnqueueRequiresInputPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Enqueue(context.Background(), queue.JobSpec{FileName: "a.srt"}); err == nil {
		t.Fatal("expected error when input path missing")
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job, err := store.GetByID(context.Background(), "no-such-job")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil for missing job, got %#v", job)
	}
}

func TestNextQueuedClaimsOldestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		job := testsupport.EnqueueJob(t, store, queue.JobSpec{
			FileName:   fmt.Sprintf("file-%d.srt", i),
			SourceLang: "en",
			TargetLang: "nb",
			Mode:       "api",
			Policy:     "lenient",
			InputPath:  fmt.Sprintf("/tmp/file-%d.srt", i),
		})
		ids = append(ids, job.ID)
		// created_at has nanosecond precision but keep ordering unambiguous
		time.Sleep(2 * time.Millisecond)
	}

	for i := 0; i < 3; i++ {
		claimed, err := store.NextQueued(ctx)
		if err != nil {
			t.Fatalf("NextQueued failed: %v", err)
		}
		if claimed == nil {
			t.Fatalf("expected job %d to be claimable", i)
		}
		if claimed.ID != ids[i] {
			t.Fatalf("claim %d = %s, want %s", i, claimed.ID, ids[i])
		}
		if claimed.Status != queue.StatusRunning {
			t.Fatalf("claimed status = %q", claimed.Status)
		}
		if claimed.StartedAt == nil {
			t.Fatal("claimed job missing started_at")
		}
	}

	empty, err := store.NextQueued(ctx)
	if err != nil {
		t.Fatalf("NextQueued on empty queue failed: %v", err)
	}
	if empty != nil {
		t.Fatalf("expected empty queue, got %#v", empty)
	}
}

func TestUpdatePersistsOutcome(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	job := testsupport.EnqueueJob(t, store, queue.JobSpec{
		FileName:   "movie.srt",
		SourceLang: "en",
		TargetLang: "nb",
		Mode:       "offline",
		Policy:     "strict",
		InputPath:  "/tmp/movie.srt",
	})

	finished := time.Now().UTC()
	job.Status = queue.StatusCompleted
	job.ResultPath = "/tmp/out/movie.nb.srt"
	job.Segments = 42
	job.Translated = 40
	job.Passthrough = 2
	job.BackendUsed = "api"
	job.FinishedAt = &finished

	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusCompleted {
		t.Fatalf("status = %q", fetched.Status)
	}
	if fetched.ResultPath != "/tmp/out/movie.nb.srt" || fetched.BackendUsed != "api" {
		t.Fatalf("result fields not persisted: %#v", fetched)
	}
	if fetched.Segments != 42 || fetched.Translated != 40 || fetched.Passthrough != 2 {
		t.Fatalf("counters not persisted: %#v", fetched)
	}
	if fetched.FinishedAt == nil {
		t.Fatal("finished_at not persisted")
	}
}

func TestUpdateMissingJobFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job := &queue.Job{ID: "ghost", Status: queue.StatusFailed, InputPath: "/tmp/x.srt"}
	if err := store.Update(context.Background(), job); err == nil {
		t.Fatal("expected error updating a missing job")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	queued := testsupport.EnqueueJob(t, store, queue.JobSpec{
		FileName: "a.srt", SourceLang: "en", TargetLang: "nb",
		Mode: "api", Policy: "lenient", InputPath: "/tmp/a.srt",
	})
	failed := testsupport.EnqueueJob(t, store, queue.JobSpec{
		FileName: "b.srt", SourceLang: "en", TargetLang: "nb",
		Mode: "api", Policy: "lenient", InputPath: "/tmp/b.srt",
	})
	failed.Status = queue.StatusFailed
	failed.ErrorMessage = "backend unavailable"
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List returned %d jobs", len(all))
	}

	onlyFailed, err := store.List(ctx, queue.StatusFailed)
	if err != nil {
		t.Fatalf("List(failed) failed: %v", err)
	}
	if len(onlyFailed) != 1 || onlyFailed[0].ID != failed.ID {
		t.Fatalf("unexpected failed list: %#v", onlyFailed)
	}
	if onlyFailed[0].ErrorMessage != "backend unavailable" {
		t.Fatalf("error message = %q", onlyFailed[0].ErrorMessage)
	}

	_ = queued
}

func TestResetRunningRequeuesInterruptedJobs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.EnqueueJob(t, store, queue.JobSpec{
		FileName: "a.srt", SourceLang: "en", TargetLang: "nb",
		Mode: "api", Policy: "lenient", InputPath: "/tmp/a.srt",
	})
	claimed, err := store.NextQueued(ctx)
	if err != nil || claimed == nil {
		t.Fatalf("NextQueued failed: %v %#v", err, claimed)
	}

	count, err := store.ResetRunning(ctx)
	if err != nil {
		t.Fatalf("ResetRunning failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("ResetRunning reset %d jobs", count)
	}

	fetched, err := store.GetByID(ctx, claimed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusQueued {
		t.Fatalf("status after reset = %q", fetched.Status)
	}
	if fetched.StartedAt != nil {
		t.Fatal("started_at should be cleared on reset")
	}
}

func TestClearAndClearCompleted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	active := testsupport.EnqueueJob(t, store, queue.JobSpec{
		FileName: "a.srt", SourceLang: "en", TargetLang: "nb",
		Mode: "api", Policy: "lenient", InputPath: "/tmp/a.srt",
	})
	done := testsupport.EnqueueJob(t, store, queue.JobSpec{
		FileName: "b.srt", SourceLang: "en", TargetLang: "nb",
		Mode: "api", Policy: "lenient", InputPath: "/tmp/b.srt",
	})
	done.Status = queue.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	removed, err := store.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("ClearCompleted removed %d", removed)
	}
	if job, _ := store.GetByID(ctx, active.ID); job == nil {
		t.Fatal("active job should survive ClearCompleted")
	}

	removed, err = store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("Clear removed %d", removed)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 0 {
		t.Fatalf("health total = %d", health.Total)
	}
}

func TestHealthCountsByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		testsupport.EnqueueJob(t, store, queue.JobSpec{
			FileName: fmt.Sprintf("f%d.srt", i), SourceLang: "en", TargetLang: "nb",
			Mode: "api", Policy: "lenient", InputPath: fmt.Sprintf("/tmp/f%d.srt", i),
		})
	}
	failed := testsupport.EnqueueJob(t, store, queue.JobSpec{
		FileName: "g.srt", SourceLang: "en", TargetLang: "nb",
		Mode: "api", Policy: "lenient", InputPath: "/tmp/g.srt",
	})
	failed.Status = queue.StatusFailed
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 3 || health.Queued != 2 || health.Failed != 1 {
		t.Fatalf("health = %+v", health)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := queue.ParseStatus("Completed"); !ok || status != queue.StatusCompleted {
		t.Fatalf("ParseStatus(Completed) = %v, %v", status, ok)
	}
	if _, ok := queue.ParseStatus("paused"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}
