package remediate

import (
	"context"
	"fmt"

	"vidsweep/internal/content"
	"vidsweep/internal/logging"
	"vidsweep/internal/probe"
	"vidsweep/internal/scrub"
	"vidsweep/internal/settings"
)

// Checker classifies a URL. *probe.Checker satisfies it.
type Checker interface {
	Check(ctx context.Context, url string, s settings.ScanSettings) probe.Result
}

// Result is the end state of one processed record. Outcome is set only when
// the record reached StateRemediated.
type Result struct {
	State   State
	Broken  bool
	Outcome *Outcome
}

// Orchestrator applies the check and remediation steps to records.
type Orchestrator struct {
	store    content.Store
	checker  Checker
	settings settings.ScanSettings
	sink     *logging.Sink
}

// New builds an Orchestrator. A nil sink discards log lines.
func New(store content.Store, checker Checker, s settings.ScanSettings, sink *logging.Sink) *Orchestrator {
	if sink == nil {
		sink = logging.NewSink(nil, false)
	}
	return &Orchestrator{store: store, checker: checker, settings: s, sink: sink}
}

// Process runs one record through the state machine, appending any failure
// to errs. It never panics and never returns an error: a failed step leaves
// the record in the state it had reached. A record without a URL is broken.
// Once ctx is done the record is left as it is and nothing is recorded.
func (o *Orchestrator) Process(ctx context.Context, rec content.MediaRecord, errs *ErrorList) (result Result) {
	result.State = StatePending
	defer func() {
		if r := recover(); r != nil {
			o.fail(errs, processingError(KindUnexpected, rec.ID, fmt.Errorf("panic: %v", r)))
			result.Outcome = nil
		}
	}()

	if rec.Quarantined() {
		result.State = StateSkipped
		return result
	}
	if ctx.Err() != nil {
		return result
	}

	var res probe.Result
	if rec.URL == "" {
		o.fail(errs, missingURLError(rec.ID))
		res = probe.Result{Broken: true}
	} else {
		res = o.checker.Check(ctx, rec.URL, o.settings)
		if ctx.Err() != nil {
			return result
		}
		if res.Err != nil {
			o.fail(errs, &Error{Kind: classify(res.Err), AttachmentID: rec.ID, Err: res.Err})
		}
	}
	result.State = StateChecked
	result.Broken = res.Broken
	if !res.Broken {
		result.State = StateSkipped
		return result
	}

	o.sink.Info("broken video found",
		logging.Int64(logging.FieldAttachmentID, rec.ID),
		logging.String(logging.FieldURL, rec.URL),
		logging.Int("status", res.Status),
	)
	result.State = StateRemediating
	outcome, err := o.remediate(ctx, rec)
	if err != nil {
		if ctx.Err() != nil {
			return result
		}
		o.fail(errs, err)
		return result
	}
	result.State = StateRemediated
	result.Outcome = outcome
	return result
}

func (o *Orchestrator) remediate(ctx context.Context, rec content.MediaRecord) (*Outcome, *Error) {
	outcome := &Outcome{AttachmentID: rec.ID, URL: rec.URL}

	if rec.HasParent() {
		parentID := rec.ParentID
		outcome.ParentID = &parentID
		doc, err := o.store.GetDocument(ctx, parentID)
		if err == nil && doc.Live() {
			if body, changed := scrub.Remove(doc.Body, rec.ID, rec.URL); changed {
				if err := o.store.UpdateDocumentBody(ctx, parentID, body); err != nil {
					return nil, updateDocumentError(rec.ID, parentID, err)
				}
				outcome.Actions = append(outcome.Actions, ActionCleaned(parentID))
				o.sink.Info("removed video references from document",
					logging.Int64(logging.FieldAttachmentID, rec.ID),
					logging.Int64(logging.FieldParentID, parentID),
				)
			}
			if err := o.store.ClearParent(ctx, rec.ID); err != nil {
				return nil, processingError(KindPersistence, rec.ID, err)
			}
			outcome.Actions = append(outcome.Actions, ActionUnlinked)
		}
	}

	if err := o.store.Quarantine(ctx, rec.ID); err != nil {
		return nil, processingError(KindPersistence, rec.ID, err)
	}
	outcome.Actions = append(outcome.Actions, ActionTrashed)
	o.sink.Info("moved attachment to trash", logging.Int64(logging.FieldAttachmentID, rec.ID))
	return outcome, nil
}

func (o *Orchestrator) fail(errs *ErrorList, err *Error) {
	errs.Add(err)
	o.sink.Error(err.Error(),
		logging.Int64(logging.FieldAttachmentID, err.AttachmentID),
		logging.String(logging.FieldErrorKind, err.ErrorKind()),
	)
}
