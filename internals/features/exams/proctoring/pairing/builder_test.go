package pairing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examku_backend/internals/constants"
	catalogModel "examku_backend/internals/features/exams/catalogs/model"
	m "examku_backend/internals/features/exams/transactions/model"
)

func trx(code, subject, room string) m.ExamTransactionModel {
	return m.ExamTransactionModel{
		TransactionCode: code,
		SubjectCode:     subject,
		Date:            m.NewDate(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		RoomNumber:      room,
		ShiftCode:       "1",
	}
}

func fixture(opts Options) *Builder {
	transactions := []m.ExamTransactionModel{
		trx("TH001", "ACCT6300003", "601"),
		trx("TH002", "ACCT6300003", "602"),
		trx("TH003", "COMP6047001", "603"),
	}
	users := []catalogModel.UserModel{
		{NIM: "2501", Name: "Andi Wijaya", Role: constants.RoleAssistant},
		{NIM: "2502", Name: "Budi Santoso", Role: constants.RoleAssistant},
		{NIM: "2601", Name: "Citra Lestari", Role: constants.RoleStudent},
	}
	return New(transactions, users, opts)
}

func stage(t *testing.T, b *Builder, code, nim string) {
	t.Helper()
	require.NoError(t, b.SelectTransaction(code))
	require.NoError(t, b.SelectAssistant(nim))
	require.True(t, b.AddPair())
}

func selectableCodes(b *Builder) []string {
	var out []string
	for _, t := range b.SelectableTransactions("") {
		out = append(out, t.TransactionCode)
	}
	return out
}

func TestNewKeepsOnlyAssistants(t *testing.T) {
	b := fixture(DefaultOptions())

	got := b.SelectableAssistants("")

	require.Len(t, got, 2)
	assert.Equal(t, "2501", got[0].NIM)
	assert.ErrorIs(t, b.SelectAssistant("2601"), constants.ErrNotFound)
}

func TestAddPairRequiresBothCandidates(t *testing.T) {
	b := fixture(DefaultOptions())
	assert.Equal(t, StateEmpty, b.State())

	assert.False(t, b.AddPair())

	require.NoError(t, b.SelectTransaction("TH001"))
	assert.False(t, b.AddPair())
	assert.Empty(t, b.Pairs())

	require.NoError(t, b.SelectAssistant("2501"))
	assert.True(t, b.AddPair())

	trxCode, nim := b.Candidates()
	assert.Empty(t, trxCode)
	assert.Empty(t, nim)
	assert.Equal(t, []PendingPair{{TransactionCode: "TH001", AssistantNIM: "2501"}}, b.Pairs())
	assert.Equal(t, StateStaging, b.State())
}

func TestStagedTransactionLeavesPoolUntilRemoved(t *testing.T) {
	b := fixture(DefaultOptions())
	stage(t, b, "TH002", "2501")

	assert.Equal(t, []string{"TH001", "TH003"}, selectableCodes(b))
	err := b.SelectTransaction("TH002")
	assert.ErrorIs(t, err, constants.ErrNotFound)
	assert.Contains(t, err.Error(), "already staged")

	removed, err := b.RemovePair(0)
	require.NoError(t, err)
	assert.Equal(t, "TH002", removed.TransactionCode)

	assert.Equal(t, []string{"TH001", "TH002", "TH003"}, selectableCodes(b))
	assert.NoError(t, b.SelectTransaction("TH002"))
}

func TestAssistantMayProctorSeveralTransactions(t *testing.T) {
	b := fixture(DefaultOptions())
	stage(t, b, "TH001", "2501")
	stage(t, b, "TH002", "2501")

	assert.Len(t, b.Pairs(), 2)
}

func TestSelectUnknown(t *testing.T) {
	b := fixture(DefaultOptions())

	assert.ErrorIs(t, b.SelectTransaction("TH999"), constants.ErrTransactionNotFound)
	assert.ErrorIs(t, b.SelectAssistant("0000"), constants.ErrAssistantNotFound)
}

func TestRemovePairOutOfRange(t *testing.T) {
	b := fixture(DefaultOptions())
	stage(t, b, "TH001", "2501")

	for _, idx := range []int{-1, 1, 5} {
		_, err := b.RemovePair(idx)
		assert.ErrorIs(t, err, constants.ErrPairOutOfRange)
		assert.ErrorIs(t, err, constants.ErrNotFound)
	}
	assert.Len(t, b.Pairs(), 1)
}

func TestRemovePairKeepsOrder(t *testing.T) {
	b := fixture(DefaultOptions())
	stage(t, b, "TH001", "2501")
	stage(t, b, "TH002", "2502")
	stage(t, b, "TH003", "2501")

	_, err := b.RemovePair(1)
	require.NoError(t, err)

	assert.Equal(t, []PendingPair{
		{TransactionCode: "TH001", AssistantNIM: "2501"},
		{TransactionCode: "TH003", AssistantNIM: "2501"},
	}, b.Pairs())
}

func TestSelectableKeyword(t *testing.T) {
	b := fixture(DefaultOptions())

	byRoom := b.SelectableTransactions("603")
	require.Len(t, byRoom, 1)
	assert.Equal(t, "TH003", byRoom[0].TransactionCode)

	assert.Len(t, b.SelectableTransactions("acct"), 2)
	assert.Len(t, b.SelectableTransactions("2024-06"), 3)

	byName := b.SelectableAssistants("budi")
	require.Len(t, byName, 1)
	assert.Equal(t, "2502", byName[0].NIM)
}

type fakeCommitter struct {
	mu    sync.Mutex
	fail  map[string]error
	calls map[string]string
}

func (f *fakeCommitter) AssignProctor(_ context.Context, code, nim string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]string{}
	}
	f.calls[code] = nim
	return f.fail[code]
}

func TestSubmitPartialFailureRetainsFailed(t *testing.T) {
	b := fixture(DefaultOptions())
	stage(t, b, "TH001", "2501")
	stage(t, b, "TH002", "2502")
	c := &fakeCommitter{fail: map[string]error{"TH001": errors.New("db down")}}

	res := b.Submit(context.Background(), c)

	assert.Equal(t, []PendingPair{{TransactionCode: "TH002", AssistantNIM: "2502"}}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "TH001", res.Failed[0].Pair.TransactionCode)
	assert.Equal(t, "db down", res.Failed[0].Reason)
	assert.ErrorIs(t, res.Failed[0], constants.ErrCommitFailure)
	assert.True(t, res.HasFailures())
	assert.Equal(t, []string{"TH001"}, res.FailedCodes())

	assert.Equal(t, map[string]string{"TH001": "2501", "TH002": "2502"}, c.calls)
	assert.Equal(t, []PendingPair{{TransactionCode: "TH001", AssistantNIM: "2501"}}, b.Pairs())
	assert.Equal(t, StateStaging, b.State())

	// retry succeeds and empties the session
	c.fail = nil
	res = b.Submit(context.Background(), c)
	assert.Len(t, res.Succeeded, 1)
	assert.Empty(t, res.Failed)
	assert.Equal(t, StateEmpty, b.State())
}

func TestSubmitDropsEverythingWhenNotRetaining(t *testing.T) {
	b := fixture(Options{RetainFailed: false})
	stage(t, b, "TH001", "2501")
	stage(t, b, "TH002", "2502")
	c := &fakeCommitter{fail: map[string]error{"TH001": errors.New("db down")}}

	res := b.Submit(context.Background(), c)

	assert.Len(t, res.Succeeded, 1)
	assert.Len(t, res.Failed, 1)
	assert.Empty(t, b.Pairs())
	assert.Equal(t, StateEmpty, b.State())
}

func TestSubmitMarksProctorOnSuccess(t *testing.T) {
	b := fixture(DefaultOptions())
	stage(t, b, "TH003", "2502")

	b.Submit(context.Background(), &fakeCommitter{})

	for _, tr := range b.SelectableTransactions("") {
		if tr.TransactionCode == "TH003" {
			assert.Equal(t, "2502", tr.ProctorNIM())
		}
	}
}

func TestSubmitWaitsForAllAndBoundsConcurrency(t *testing.T) {
	b := fixture(Options{RetainFailed: true, Concurrency: 2})
	stage(t, b, "TH001", "2501")
	stage(t, b, "TH002", "2502")
	stage(t, b, "TH003", "2501")

	var inFlight, peak, done int32
	commit := CommitFunc(func(ctx context.Context, code, nim string) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		atomic.AddInt32(&done, 1)
		if code == "TH002" {
			return errors.New("rejected")
		}
		return nil
	})

	res := b.Submit(context.Background(), commit)

	assert.EqualValues(t, 3, atomic.LoadInt32(&done))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Len(t, res.Succeeded, 2)
	assert.Equal(t, []string{"TH002"}, res.FailedCodes())
}

func TestSubmitRecoversPanics(t *testing.T) {
	b := fixture(DefaultOptions())
	stage(t, b, "TH001", "2501")
	stage(t, b, "TH002", "2502")

	res := b.Submit(context.Background(), CommitFunc(func(_ context.Context, code, _ string) error {
		if code == "TH001" {
			panic("boom")
		}
		return nil
	}))

	assert.Equal(t, []string{"TH001"}, res.FailedCodes())
	assert.Len(t, res.Succeeded, 1)
}

func TestSubmitAppliesCommitTimeout(t *testing.T) {
	b := fixture(Options{RetainFailed: true, CommitTimeout: 10 * time.Millisecond})
	stage(t, b, "TH001", "2501")

	res := b.Submit(context.Background(), CommitFunc(func(ctx context.Context, _, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	require.Len(t, res.Failed, 1)
	assert.ErrorIs(t, res.Failed[0], context.DeadlineExceeded)
}

func TestSubmitEmpty(t *testing.T) {
	b := fixture(DefaultOptions())

	res := b.Submit(context.Background(), &fakeCommitter{})

	assert.Empty(t, res.Succeeded)
	assert.Empty(t, res.Failed)
}
