// file: internals/features/exams/proctoring/pairing/builder.go
package pairing

import (
	"fmt"
	"strings"
	"time"

	"examku_backend/internals/constants"
	catalogModel "examku_backend/internals/features/exams/catalogs/model"
	m "examku_backend/internals/features/exams/transactions/model"
)

/* =======================================================
   Types
   ======================================================= */

type State string

const (
	StateEmpty      State = "empty"
	StateStaging    State = "staging"
	StateSubmitting State = "submitting"
)

// PendingPair is a staged, not yet committed proctor assignment.
type PendingPair struct {
	TransactionCode string `json:"transaction_code"`
	AssistantNIM    string `json:"assistant_nim"`
}

type Options struct {
	// RetainFailed keeps pairs whose commit failed staged for a retry.
	// When false every pair is dropped after Submit.
	RetainFailed bool
	// Concurrency bounds parallel commits; <= 0 means unbounded.
	Concurrency int
	// CommitTimeout bounds each commit call; 0 means no extra deadline.
	CommitTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{RetainFailed: true, Concurrency: 8}
}

// Builder stages assistant ↔ transaction pairs for one operator session.
// It is not safe for concurrent use.
type Builder struct {
	opts Options

	transactions []m.ExamTransactionModel
	assistants   []catalogModel.UserModel

	candidateTrx       string
	candidateAssistant string

	pairs      []PendingPair
	submitting bool
}

// New copies the pools; users that are not assistants are dropped.
func New(transactions []m.ExamTransactionModel, users []catalogModel.UserModel, opts Options) *Builder {
	return &Builder{
		opts:         opts,
		transactions: append([]m.ExamTransactionModel(nil), transactions...),
		assistants:   catalogModel.OnlyAssistants(users),
	}
}

func (b *Builder) Options() Options { return b.opts }

func (b *Builder) State() State {
	switch {
	case b.submitting:
		return StateSubmitting
	case len(b.pairs) == 0:
		return StateEmpty
	default:
		return StateStaging
	}
}

// Pairs returns a copy of the staged list.
func (b *Builder) Pairs() []PendingPair {
	return append([]PendingPair(nil), b.pairs...)
}

// Candidates returns the currently selected transaction code and nim.
func (b *Builder) Candidates() (transactionCode, assistantNIM string) {
	return b.candidateTrx, b.candidateAssistant
}

func (b *Builder) IsStaged(transactionCode string) bool {
	for _, p := range b.pairs {
		if p.TransactionCode == transactionCode {
			return true
		}
	}
	return false
}

/* =======================================================
   Selectable pools (re-derived on every call)
   ======================================================= */

// SelectableTransactions is the pool minus staged transactions, narrowed by
// a case-insensitive keyword over subject code, date and room.
func (b *Builder) SelectableTransactions(keyword string) []m.ExamTransactionModel {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]m.ExamTransactionModel, 0, len(b.transactions))
	for _, t := range b.transactions {
		if b.IsStaged(t.TransactionCode) {
			continue
		}
		if kw != "" &&
			!strings.Contains(strings.ToLower(t.SubjectCode), kw) &&
			!strings.Contains(t.DateString(), kw) &&
			!strings.Contains(strings.ToLower(t.RoomNumber), kw) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SelectableAssistants narrows assistants by name or nim.
func (b *Builder) SelectableAssistants(keyword string) []catalogModel.UserModel {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]catalogModel.UserModel, 0, len(b.assistants))
	for _, a := range b.assistants {
		if kw != "" &&
			!strings.Contains(strings.ToLower(a.Name), kw) &&
			!strings.Contains(strings.ToLower(a.NIM), kw) {
			continue
		}
		out = append(out, a)
	}
	return out
}

/* =======================================================
   Selection & staging
   ======================================================= */

func (b *Builder) SelectTransaction(code string) error {
	code = strings.TrimSpace(code)
	for _, t := range b.SelectableTransactions("") {
		if t.TransactionCode == code {
			b.candidateTrx = code
			return nil
		}
	}
	if b.IsStaged(code) {
		return fmt.Errorf("%w: %s is already staged", constants.ErrTransactionNotFound, code)
	}
	return fmt.Errorf("%w: %s", constants.ErrTransactionNotFound, code)
}

func (b *Builder) SelectAssistant(nim string) error {
	nim = strings.TrimSpace(nim)
	for _, a := range b.assistants {
		if a.NIM == nim {
			b.candidateAssistant = nim
			return nil
		}
	}
	return fmt.Errorf("%w: %s", constants.ErrAssistantNotFound, nim)
}

func (b *Builder) ClearCandidates() {
	b.candidateTrx = ""
	b.candidateAssistant = ""
}

// CanAddPair reports whether AddPair would stage something.
func (b *Builder) CanAddPair() bool {
	return b.candidateTrx != "" && b.candidateAssistant != "" && !b.IsStaged(b.candidateTrx)
}

// AddPair stages the current candidates and clears them. It is a no-op
// returning false unless both candidates are selected.
func (b *Builder) AddPair() bool {
	if !b.CanAddPair() {
		return false
	}
	b.pairs = append(b.pairs, PendingPair{
		TransactionCode: b.candidateTrx,
		AssistantNIM:    b.candidateAssistant,
	})
	b.ClearCandidates()
	return true
}

func (b *Builder) RemovePair(index int) (PendingPair, error) {
	if index < 0 || index >= len(b.pairs) {
		return PendingPair{}, fmt.Errorf("%w: %d (staged %d)", constants.ErrPairOutOfRange, index, len(b.pairs))
	}
	p := b.pairs[index]
	b.pairs = append(b.pairs[:index:index], b.pairs[index+1:]...)
	return p, nil
}

// Reset drops every staged pair and both candidates.
func (b *Builder) Reset() {
	b.pairs = nil
	b.ClearCandidates()
}

func (b *Builder) markProctor(code, nim string) {
	for i := range b.transactions {
		if b.transactions[i].TransactionCode == code {
			v := nim
			b.transactions[i].Proctor = &v
			return
		}
	}
}
