package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/hnlevel/internal/headings"
	"github.com/dgallion1/hnlevel/internal/outline"
	"github.com/dgallion1/hnlevel/internal/parser"
)

// Worker processes a single document job.
type Worker struct {
	roles outline.Roles
	log   *slog.Logger
}

func NewWorker(roles outline.Roles, log *slog.Logger) *Worker {
	return &Worker{roles: roles, log: log}
}

// Process parses the job's document, resolves its headings and, when asked,
// renders it with self-leveling headings replaced. Each job gets its own
// Resolver, so cached levels never outlive the document they describe.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "cancelled")
		return
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()))
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetTitle(parser.FindTitle(doc))

	// Phase 2: Resolve
	job.SetStatus(StatusResolving, "resolving")
	r := outline.New(w.roles)
	hs := headings.Annotate(doc, r)
	job.SetHeadings(hs)
	log.Info("resolved headings", "headings", len(hs))

	if !job.Rewrite {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 3: Render
	job.SetStatus(StatusRendering, "rendering")
	n := headings.Rewrite(doc, r)
	var buf bytes.Buffer
	if err := headings.Render(&buf, doc); err != nil {
		log.Error("render failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "rendering")
		return
	}
	job.SetOutput(n, buf.Bytes())
	log.Info("rewrote headings", "rewritten", n)

	job.SetStatus(StatusCompleted, "done")
}
