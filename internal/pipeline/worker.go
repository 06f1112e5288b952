package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docsearch/internal/docstore"
	"github.com/dgallion1/docsearch/internal/layout"
	"github.com/dgallion1/docsearch/internal/parser"
)

// Worker processes a single document job.
type Worker struct {
	store      *docstore.Store
	log        *slog.Logger
	layoutCfg  layout.Config
	parserOpts parser.Options
}

func NewWorker(store *docstore.Store, log *slog.Logger, layoutCfg layout.Config, parserOpts parser.Options) *Worker {
	return &Worker{
		store:      store,
		log:        log,
		layoutCfg:  layoutCfg,
		parserOpts: parserOpts,
	}
}

// Process parses the uploaded file, synthesizes its layout, and stores it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "queued")
		return
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	src, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		src.Title = job.Title
	}

	hash := ContentHashHex([]byte(src.Text))
	job.SetContentHash(hash)

	// Phase 1.5: Dedup check
	if existing, ok := w.store.FindByHash(hash); ok {
		log.Info("duplicate document, skipping", "existing_doc_id", existing.ID)
		job.SetDocID(existing.ID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Layout
	job.SetStatus(StatusLayout, "layout")
	l := layout.Build(src, w.layoutCfg)
	job.SetLayoutStats(l.TotalPages, len(l.Sections), l.WordCount)

	existing, stored := w.store.PutIfNewHash(&docstore.Document{
		ID:          job.DocID,
		Filename:    job.Filename,
		ContentHash: hash,
		Layout:      l,
	})
	if !stored {
		log.Info("duplicate document stored concurrently, skipping", "existing_doc_id", existing.ID)
		job.SetDocID(existing.ID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}
	log.Info("layout stored", "pages", l.TotalPages, "sections", len(l.Sections), "words", l.WordCount)
	job.SetStatus(StatusCompleted, "done")
}
