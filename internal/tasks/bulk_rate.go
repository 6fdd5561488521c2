package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/trackrater/internal/formatter"
	"github.com/desertthunder/trackrater/internal/shared"
	"golang.org/x/time/rate"
)

// BulkRateOpts contains configuration for bulk rating submissions.
type BulkRateOpts struct {
	NumWorkers   int     // Concurrent workers (default: 4, max: 10)
	RateLimit    float64 // Submissions per second (default: 5)
	ManifestPath string  // Optional JSON summary of every result
}

// RatingResult is the outcome of a single submission.
type RatingResult struct {
	Index   int       `json:"-"`
	Job     RatingJob `json:"job"`
	Success bool      `json:"success"`
	Err     error     `json:"-"`
	Error   string    `json:"error,omitempty"`
}

// BulkRateResult summarizes a bulk submission. Results are in input order.
type BulkRateResult struct {
	Total        int            `json:"total"`
	Succeeded    int            `json:"succeeded"`
	Failed       int            `json:"failed"`
	Results      []RatingResult `json:"results"`
	ManifestPath string         `json:"-"`
}

func newRatingResult(i int, job RatingJob, err error) RatingResult {
	res := RatingResult{Index: i, Job: job, Success: err == nil, Err: err}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// BulkRate submits jobs concurrently with rate limiting and progress tracking.
//
// Jobs that were never sent because ctx ended are reported as failed, and the context error is returned.
// A context that ends after every job was submitted is not an error.
func (e *RatingEngine) BulkRate(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	jobs []RatingJob,
	opts BulkRateOpts,
) (*BulkRateResult, error) {
	if e.rater == nil {
		return nil, fmt.Errorf("%w: rater not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &BulkRateResult{
		Total:   len(jobs),
		Results: make([]RatingResult, len(jobs)),
	}
	sendProgress(prog, parsedRatingsUpdate(len(jobs)))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	queue := make(chan int, len(jobs))
	results := make(chan RatingResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.rateWorker(ctx, &wg, jobs, queue, results)
	}

	go func() {
		defer close(queue)
		for i := range jobs {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			queue <- i
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	done := make([]bool, len(jobs))
	completed := 0
	for res := range results {
		completed++
		done[res.Index] = true
		result.Results[res.Index] = res

		if res.Success {
			result.Succeeded++
			sendProgress(prog, ratingSubmittedUpdate(completed, len(jobs), res))
		} else {
			result.Failed++
			sendProgress(prog, ratingFailedUpdate(completed, len(jobs), res))
		}
	}

	unsent := 0
	for i, ok := range done {
		if !ok {
			result.Results[i] = newRatingResult(i, jobs[i], fmt.Errorf("not submitted: %w", ctx.Err()))
			result.Failed++
			unsent++
		}
	}

	if opts.ManifestPath != "" {
		data, err := formatter.ToJSON(result, true)
		if err != nil {
			return result, fmt.Errorf("ratings submitted but failed to encode manifest: %w", err)
		}
		path, err := formatter.WriteExport(data, opts.ManifestPath)
		if err != nil {
			return result, fmt.Errorf("ratings submitted but failed to write manifest: %w", err)
		}
		result.ManifestPath = path
		sendProgress(prog, manifestWrittenUpdate(path))
	}

	if unsent > 0 {
		return result, ctx.Err()
	}
	return result, nil
}

// rateWorker submits the jobs whose indexes arrive on queue.
func (e *RatingEngine) rateWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs []RatingJob,
	queue <-chan int,
	results chan<- RatingResult,
) {
	defer wg.Done()

	for i := range queue {
		job := jobs[i]
		err := e.rater.Rate(ctx, job.Feature, job.TrackID, job.Rating)
		results <- newRatingResult(i, job, err)
	}
}
