package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/docsearch/internal/config"
	"github.com/dgallion1/docsearch/internal/docstore"
	"github.com/dgallion1/docsearch/internal/layout"
	"github.com/dgallion1/docsearch/internal/parser"
)

func testWorker(store *docstore.Store) *Worker {
	return NewWorker(store, slog.New(slog.DiscardHandler), layout.DefaultConfig(), parser.Options{})
}

func TestWorker_ProcessStoresLayout(t *testing.T) {
	store := docstore.New(time.Hour)
	w := testWorker(store)

	job := NewJob("notes.txt", "My Notes", []byte("Chapter 1: Start\nhello world\n"))
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q (errors %v)", StatusCompleted, snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.TotalPages != 1 || snap.Progress.Sections != 1 || snap.Progress.Words != 5 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}

	doc, err := store.Get(job.DocID)
	if err != nil {
		t.Fatalf("expected stored document: %v", err)
	}
	if doc.Layout.Title != "My Notes" {
		t.Errorf("expected title override, got %q", doc.Layout.Title)
	}
	if doc.ContentHash != snap.ContentHash || doc.ContentHash == "" {
		t.Errorf("expected matching content hash, got %q and %q", doc.ContentHash, snap.ContentHash)
	}
}

func TestWorker_DuplicateSkipped(t *testing.T) {
	store := docstore.New(time.Hour)
	w := testWorker(store)

	first := NewJob("a.txt", "", []byte("same text"))
	w.Process(context.Background(), first)
	second := NewJob("b.txt", "", []byte("same text"))
	w.Process(context.Background(), second)

	snap := second.Snapshot()
	if snap.Status != StatusDupSkipped {
		t.Fatalf("expected status %q, got %q", StatusDupSkipped, snap.Status)
	}
	if snap.DocID != first.Snapshot().DocID {
		t.Errorf("expected duplicate to point at %q, got %q", first.Snapshot().DocID, snap.DocID)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 stored document, got %d", store.Len())
	}
}

func TestWorker_UnsupportedFormat(t *testing.T) {
	store := docstore.New(time.Hour)
	job := NewJob("deck.pptx", "", []byte("x"))
	testWorker(store).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "parsing" {
		t.Errorf("expected failed in parsing, got %q in %q", snap.Status, snap.Phase)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", snap.Progress.Errors)
	}
	if store.Len() != 0 {
		t.Errorf("expected nothing stored, got %d", store.Len())
	}
}

func TestWorker_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := NewJob("a.txt", "", []byte("text"))
	testWorker(docstore.New(time.Hour)).Process(ctx, job)
	if got := job.Snapshot().Status; got != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, got)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, docstore.New(time.Hour), slog.New(slog.DiscardHandler))

	if err := o.Submit(NewJob("a.txt", "", []byte("a"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	overflow := NewJob("b.txt", "", []byte("b"))
	err := o.Submit(overflow)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if got := o.GetJob(overflow.ID).Snapshot().Status; got != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %q", got)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 10, JobTTL: time.Hour}
	store := docstore.New(time.Hour)
	o := NewOrchestrator(cfg, store, slog.New(slog.DiscardHandler))
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("a.md", "", []byte("# Heading\n\nBody text."))
	if err := o.Submit(job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !job.Snapshot().Status.Terminal() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for job")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if got := job.Snapshot().Status; got != StatusCompleted {
		t.Fatalf("expected status %q, got %q", StatusCompleted, got)
	}
	if o.Store().Len() != 1 {
		t.Errorf("expected 1 stored document, got %d", o.Store().Len())
	}
}

func TestWorker_ConcurrentDuplicatesStoreOnce(t *testing.T) {
	body := []byte(strings.Repeat("identical line of text\n", 16000))

	for iter := range 20 {
		store := docstore.New(time.Hour)
		jobs := make([]*Job, 4)
		var wg sync.WaitGroup
		for i := range jobs {
			jobs[i] = NewJob("same.txt", "", body)
			wg.Add(1)
			go func(job *Job) {
				defer wg.Done()
				testWorker(store).Process(context.Background(), job)
			}(jobs[i])
		}
		wg.Wait()

		if store.Len() != 1 {
			t.Fatalf("iteration %d: expected 1 stored document, got %d", iter, store.Len())
		}
		docs, _ := store.Select(nil)
		completed, skipped := 0, 0
		for _, job := range jobs {
			snap := job.Snapshot()
			switch snap.Status {
			case StatusCompleted:
				completed++
			case StatusDupSkipped:
				skipped++
				if snap.DocID != docs[0].ID {
					t.Errorf("iteration %d: expected duplicate to point at %q, got %q", iter, docs[0].ID, snap.DocID)
				}
			default:
				t.Errorf("iteration %d: unexpected status %q", iter, snap.Status)
			}
		}
		if completed != 1 || skipped != 3 {
			t.Errorf("iteration %d: expected 1 completed and 3 skipped, got %d and %d", iter, completed, skipped)
		}
	}
}
