package tasks

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/trackrater/internal/models"
	"github.com/desertthunder/trackrater/internal/services"
	"github.com/desertthunder/trackrater/internal/shared"
)

// Rater submits a single rating. Satisfied by [services.FeatureService].
type Rater interface {
	Rate(ctx context.Context, feature, trackID string, rating models.Rating) error
}

var _ Rater = (*services.FeatureService)(nil)

// RatingJob is one row of a ratings import.
type RatingJob struct {
	Line    int           `json:"line"`
	Feature string        `json:"feature"`
	TrackID string        `json:"track_id"`
	Rating  models.Rating `json:"rating"`
}

// RatingEngine runs rating operations against a [Rater].
type RatingEngine struct {
	rater Rater
}

// NewRatingEngine creates a new RatingEngine.
func NewRatingEngine(rater Rater) *RatingEngine {
	return &RatingEngine{rater: rater}
}

// ParseRatingsCSV reads feature,track,rating rows.
//
// A leading header row (first column "feature") is skipped, as are lines starting with #.
// Any malformed row fails the whole parse so nothing is submitted from a bad file.
func ParseRatingsCSV(r io.Reader) ([]RatingJob, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var jobs []RatingJob
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}

		line, _ := reader.FieldPos(0)
		if len(jobs) == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "feature") {
			continue
		}

		job, err := parseRatingRecord(line, record)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func parseRatingRecord(line int, record []string) (RatingJob, error) {
	feature := strings.TrimSpace(record[0])
	trackID := strings.TrimSpace(record[1])

	if feature == "" {
		return RatingJob{}, fmt.Errorf("%w: line %d: feature", shared.ErrMissingArgument, line)
	}
	if trackID == "" {
		return RatingJob{}, fmt.Errorf("%w: line %d: track id", shared.ErrMissingArgument, line)
	}

	rating, err := models.ParseRating(record[2])
	if err != nil {
		return RatingJob{}, fmt.Errorf("line %d: %w", line, err)
	}

	return RatingJob{Line: line, Feature: feature, TrackID: trackID, Rating: rating}, nil
}
