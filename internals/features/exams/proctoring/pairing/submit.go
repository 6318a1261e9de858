// file: internals/features/exams/proctoring/pairing/submit.go
package pairing

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"examku_backend/internals/constants"
)

// Committer writes one proctor assignment. Calls for different
// transactions are independent; repeating a call is safe.
type Committer interface {
	AssignProctor(ctx context.Context, transactionCode, assistantNIM string) error
}

type CommitFunc func(ctx context.Context, transactionCode, assistantNIM string) error

func (f CommitFunc) AssignProctor(ctx context.Context, transactionCode, assistantNIM string) error {
	return f(ctx, transactionCode, assistantNIM)
}

// CommitFailure is one pair whose commit returned an error.
type CommitFailure struct {
	Pair   PendingPair `json:"pair"`
	Reason string      `json:"reason"`
	Err    error       `json:"-"`
}

func (f CommitFailure) Error() string {
	return fmt.Sprintf("%v: %s → %s: %s", constants.ErrCommitFailure, f.Pair.TransactionCode, f.Pair.AssistantNIM, f.Reason)
}

func (f CommitFailure) Unwrap() []error {
	return []error{constants.ErrCommitFailure, f.Err}
}

type SubmitResult struct {
	Succeeded []PendingPair   `json:"succeeded"`
	Failed    []CommitFailure `json:"failed"`
}

func (r SubmitResult) HasFailures() bool { return len(r.Failed) > 0 }

// FailedCodes lists the transaction codes that failed, in staging order.
func (r SubmitResult) FailedCodes() []string {
	out := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.Pair.TransactionCode)
	}
	return out
}

// Submit commits every staged pair independently and waits for all of
// them. A failing commit never stops the others. Succeeded pairs leave the
// staging list; failed ones stay only when Options.RetainFailed is set.
func (b *Builder) Submit(ctx context.Context, c Committer) SubmitResult {
	pairs := b.Pairs()
	res := SubmitResult{
		Succeeded: make([]PendingPair, 0, len(pairs)),
		Failed:    make([]CommitFailure, 0),
	}
	if len(pairs) == 0 {
		return res
	}

	b.submitting = true
	defer func() { b.submitting = false }()

	errs := make([]error, len(pairs))

	var g errgroup.Group
	if b.opts.Concurrency > 0 {
		g.SetLimit(b.opts.Concurrency)
	}
	for i, p := range pairs {
		g.Go(func() error {
			errs[i] = b.commit(ctx, c, p)
			return nil
		})
	}
	_ = g.Wait()

	var retained []PendingPair
	for i, p := range pairs {
		if errs[i] == nil {
			res.Succeeded = append(res.Succeeded, p)
			b.markProctor(p.TransactionCode, p.AssistantNIM)
			continue
		}
		res.Failed = append(res.Failed, CommitFailure{Pair: p, Reason: errs[i].Error(), Err: errs[i]})
		if b.opts.RetainFailed {
			retained = append(retained, p)
		}
	}
	b.pairs = retained
	return res
}

func (b *Builder) commit(ctx context.Context, c Committer, p PendingPair) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while assigning proctor: %v", r)
		}
	}()
	if b.opts.CommitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.CommitTimeout)
		defer cancel()
	}
	return c.AssignProctor(ctx, p.TransactionCode, p.AssistantNIM)
}
