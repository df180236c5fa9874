package publish

import (
	"log/slog"
	"os"
	"sync"

	"github.com/contentops/draft-publisher/models"
	"github.com/contentops/draft-publisher/pkg/archive"
	"github.com/contentops/draft-publisher/pkg/extractor"
	"github.com/contentops/draft-publisher/pkg/publisher"
)

// Job is one intake file queued for extraction.
type Job struct {
	FileName string
}

// Result is the outcome of one document across both phases.
type Result struct {
	FileName string
	Post     *models.ParsedPost

	PostID   int
	Created  bool
	Archived bool

	Error     error
	ErrorType string // read_error, extract_error, publish_error
}

// Failed reports whether the document was dropped from the batch.
func (r *Result) Failed() bool {
	return r.Error != nil
}

// Run executes one batch: bounded-parallel extraction over the intake
// set, then strictly sequential publishing of the successfully extracted
// posts. Publishing is serialized on purpose: concurrent by-slug
// existence checks against the CMS are a lost-update hazard.
func Run(logger *slog.Logger, config *models.Config, ext *extractor.Extractor, pub *publisher.Publisher, manager *archive.Manager, files []string) []Result {
	logger.Info("Starting extraction phase", "file_count", len(files), "workers", config.WorkerCount)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(files))
	results := make(chan Result, len(files))

	for w := 1; w <= config.WorkerCount; w++ {
		wg.Add(1)
		go worker(w, logger, ext, manager, &wg, jobs, results)
	}

	for _, name := range files {
		jobs <- Job{FileName: name}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All extraction workers finished")

	// Collection order is phase-1 completion order; phase 2 publishes in
	// that same order.
	collected := make([]Result, 0, len(files))
	for result := range results {
		if result.Failed() {
			logger.Error("Draft dropped from batch", "file", result.FileName, "error_type", result.ErrorType, "error", result.Error)
		}
		collected = append(collected, result)
	}

	logger.Info("Starting publish phase")
	for i := range collected {
		result := &collected[i]
		if result.Failed() {
			continue
		}

		outcome, err := pub.Publish(result.Post)
		if err != nil {
			result.Error = err
			result.ErrorType = "publish_error"
			logger.Error("Failed to publish draft", "file", result.FileName, "error", err)
			continue
		}
		result.PostID = outcome.Post.ID
		result.Created = outcome.Created

		// Publish success and archive success are independent facts: a
		// failed move is logged but the document still counts published.
		if err := manager.Archive(result.FileName); err != nil {
			logger.Error("Published draft could not be archived", "file", result.FileName, "error", err)
		} else {
			result.Archived = true
		}
	}

	return collected
}

// worker pulls intake files and extracts them until the queue drains.
func worker(id int, logger *slog.Logger, ext *extractor.Extractor, manager *archive.Manager, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker started draft", "worker_id", id, "file", job.FileName)
		result := Result{FileName: job.FileName}

		data, err := os.ReadFile(manager.IntakePath(job.FileName))
		if err != nil {
			logger.Error("Error reading draft", "worker_id", id, "file", job.FileName, "error", err)
			result.Error = err
			result.ErrorType = "read_error"
			results <- result
			continue
		}

		post, err := ext.Extract(job.FileName, string(data))
		if err != nil {
			logger.Error("Error extracting draft", "worker_id", id, "file", job.FileName, "error", err)
			result.Error = err
			result.ErrorType = "extract_error"
			results <- result
			continue
		}

		result.Post = post
		results <- result
		logger.Info("Worker finished draft", "worker_id", id, "file", job.FileName)
	}
}
