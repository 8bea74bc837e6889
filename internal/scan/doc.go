// Package scan drives remediation over the video catalogue.
//
// Runner exposes two stateless entry points over the same per-record logic:
// RunFullScan processes every video in one pass and returns a Report, and
// RunBatch processes the single page at offset index*size and returns a
// BatchResult. RunAllBatches composes RunBatch for callers that want paged
// progress without holding state between pages themselves; Merge folds batch
// results back into a Report.
//
// Records are processed strictly in sequence. Enumeration failure is the only
// error a run returns; per-record failures land in the result's Errors.
//
// The persisted settings overrides and the last report are stored as option
// rows in the content store and overwritten wholesale.
package scan
