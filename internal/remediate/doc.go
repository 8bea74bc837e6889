// Package remediate runs the per-record state machine of a scan.
//
// For each media record the Orchestrator checks the URL and, when the record
// is broken, scrubs every reference from the parent document, detaches the
// record from that document and quarantines it. Every fault, a panic included,
// is contained at the record boundary: it is recorded in the caller's
// ErrorList, logged, and the next record proceeds.
package remediate
