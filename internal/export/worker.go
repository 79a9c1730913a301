package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cfraser/pageforge/internal/assets"
	"github.com/cfraser/pageforge/internal/block"
	"github.com/cfraser/pageforge/internal/render"
	"github.com/cfraser/pageforge/internal/transcode"
)

// Worker processes a single export job.
type Worker struct {
	resolver *assets.Resolver
	log      *slog.Logger
	stats    *Stats

	maxConcurrentTranscode int
}

func NewWorker(resolver *assets.Resolver, log *slog.Logger, stats *Stats, maxTranscode int) *Worker {
	return &Worker{
		resolver:               resolver,
		log:                    log,
		stats:                  stats,
		maxConcurrentTranscode: maxTranscode,
	}
}

// Process runs the full export for a job: per-image transcoding with
// bounded concurrency, then DOCX rendering. Image failures degrade to
// placeholders; only a renderer failure fails the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	doc := job.Doc()

	var imageBlocks []block.Block
	for _, b := range doc.Blocks {
		if b.Kind == block.KindImage {
			imageBlocks = append(imageBlocks, b)
		}
	}
	job.SetTotalImages(len(imageBlocks))
	job.SetStatus(StatusTranscoding, "transcoding images")

	type imageResult struct {
		id  string
		img render.EncodedImage
		err error
	}
	results := make(chan imageResult, len(imageBlocks))
	sem := make(chan struct{}, w.maxConcurrentTranscode)

	for _, b := range imageBlocks {
		sem <- struct{}{}
		go func(b block.Block) {
			defer func() { <-sem }()
			data, err := w.resolver.Resolve(ctx, b.SourceRef)
			if err != nil {
				results <- imageResult{id: b.ID, err: err}
				return
			}
			encoded, format := transcode.Transcode(data, b.CropHeight)
			results <- imageResult{id: b.ID, img: render.EncodedImage{Data: encoded, Format: format}}
		}(b)
	}

	images := make(map[string]render.EncodedImage, len(imageBlocks))
	for range imageBlocks {
		r := <-results
		job.IncrImagesDone()
		if r.err != nil {
			// The block renders as a placeholder; the export goes on.
			log.Warn("image unavailable", "block_id", r.id, "error", r.err)
			job.AddError(fmt.Sprintf("image %s: %s", r.id, r.err))
			continue
		}
		images[r.id] = r.img
	}

	job.SetStatus(StatusRendering, "rendering document")
	data, err := render.Docx(doc, images)
	if err != nil {
		log.Error("render failed", "error", err)
		job.AddError(fmt.Sprintf("render: %s", err))
		job.SetStatus(StatusFailed, "rendering")
		return
	}

	job.SetResult(data)
	job.SetStatus(StatusCompleted, "done")
	w.stats.Record(time.Since(start).Milliseconds())
	log.Info("export complete", "bytes", len(data), "images", len(imageBlocks), "elapsed_ms", time.Since(start).Milliseconds())
}
