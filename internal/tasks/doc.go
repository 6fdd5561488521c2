// Package tasks runs long-lived rating operations with real-time progress reporting.
//
// # Bulk Rating
//
// [RatingEngine.BulkRate] submits many ratings concurrently:
//
//  1. Rows are parsed up front by [ParseRatingsCSV] (feature, track, rating)
//  2. A token-bucket limiter paces submissions
//  3. A fixed worker pool posts each rating through the [Rater]
//  4. Results are collected in input order; one failed row never stops the others
//
// # Progress Reporting
//
// Operations report through a non-blocking channel of [ProgressUpdate] values.
// Updates use select with default so a slow reader never stalls the workers.
package tasks
