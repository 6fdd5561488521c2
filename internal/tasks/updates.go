package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ParseRatings Phase = iota
	SubmitRatings
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case ParseRatings:
		return "parse_ratings"
	case SubmitRatings:
		return "submit_ratings"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func parsedRatingsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseRatings,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Submitting %d rating(s)...", total),
	}
}

func ratingSubmittedUpdate(step, total int, res RatingResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitRatings,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s %s = %s", step, total, res.Job.Feature, res.Job.TrackID, res.Job.Rating),
		Data:    res,
	}
}

func ratingFailedUpdate(step, total int, res RatingResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitRatings,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s %s: %v", step, total, res.Job.Feature, res.Job.TrackID, res.Err),
		Data:    res,
	}
}

func manifestWrittenUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written: %s", path),
	}
}
