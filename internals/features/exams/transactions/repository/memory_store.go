// file: internals/features/exams/transactions/repository/memory_store.go
package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"examku_backend/internals/constants"
	catalogModel "examku_backend/internals/features/exams/catalogs/model"
	m "examku_backend/internals/features/exams/transactions/model"
	"examku_backend/internals/features/exams/transactions/service"
	"examku_backend/internals/helpers/dbtime"
)

// MemoryStore keeps every table in process memory. It backs DB_DRIVER=memory
// and the handler tests.
type MemoryStore struct {
	mu sync.RWMutex

	transactions map[string]m.ExamTransactionModel
	users        map[string]catalogModel.UserModel
	rooms        map[string]catalogModel.RoomModel
	shifts       map[string]catalogModel.ShiftModel
	subjects     map[string]catalogModel.SubjectModel
	enrollments  map[string]catalogModel.EnrollmentModel

	NewCode func() string
	Now     func() time.Time

	// AssignHook runs before a proctor write; a non-nil error aborts it.
	AssignHook func(transactionCode, assistantNIM string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: map[string]m.ExamTransactionModel{},
		users:        map[string]catalogModel.UserModel{},
		rooms:        map[string]catalogModel.RoomModel{},
		shifts:       map[string]catalogModel.ShiftModel{},
		subjects:     map[string]catalogModel.SubjectModel{},
		enrollments:  map[string]catalogModel.EnrollmentModel{},
		NewCode:      NewTransactionCode,
		Now:          time.Now,
	}
}

var _ service.Store = (*MemoryStore)(nil)

/* =========================
   Seeding
========================= */

func (s *MemoryStore) PutRooms(rows ...catalogModel.RoomModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.rooms[r.RoomNumber] = r
	}
}

func (s *MemoryStore) PutShifts(rows ...catalogModel.ShiftModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.shifts[r.ShiftCode] = r
	}
}

func (s *MemoryStore) PutSubjects(rows ...catalogModel.SubjectModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.subjects[r.SubjectCode] = r
	}
}

func (s *MemoryStore) PutUsers(rows ...catalogModel.UserModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.users[r.NIM] = r
	}
}

func (s *MemoryStore) PutEnrollments(rows ...catalogModel.EnrollmentModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.enrollments[r.ClassCode] = r
	}
}

// PutTransactions stores rows as given, bypassing the slot check.
func (s *MemoryStore) PutTransactions(rows ...m.ExamTransactionModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		r.ClassCodes = slices.Clone(r.ClassCodes)
		s.transactions[r.TransactionCode] = r
	}
}

// Transaction returns a copy of one stored transaction.
func (s *MemoryStore) Transaction(code string) (m.ExamTransactionModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[code]
	if ok {
		t = cloneTransaction(t)
	}
	return t, ok
}

/* =========================
   Reads
========================= */

func (s *MemoryStore) FetchTransactions(_ context.Context) ([]m.ExamTransactionModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]m.ExamTransactionModel, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, cloneTransaction(t))
	}
	slices.SortFunc(out, func(a, b m.ExamTransactionModel) int {
		if c := a.DateValue().Compare(b.DateValue()); c != 0 {
			return c
		}
		if c := strings.Compare(a.ShiftCode, b.ShiftCode); c != 0 {
			return c
		}
		return strings.Compare(a.TransactionCode, b.TransactionCode)
	})
	return out, nil
}

func (s *MemoryStore) FetchTransactionsOnDate(ctx context.Context, date time.Time) ([]m.ExamTransactionModel, error) {
	all, _ := s.FetchTransactions(ctx)
	day := dbtime.DateOnly(date)
	out := all[:0]
	for _, t := range all {
		if dbtime.DateOnly(t.DateValue()).Equal(day) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStore) FetchUsers(_ context.Context) ([]catalogModel.UserModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.users, func(a, b catalogModel.UserModel) int {
		return strings.Compare(a.Name, b.Name)
	}), nil
}

func (s *MemoryStore) FetchRooms(_ context.Context) ([]catalogModel.RoomModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.rooms, func(a, b catalogModel.RoomModel) int {
		return strings.Compare(a.RoomNumber, b.RoomNumber)
	}), nil
}

func (s *MemoryStore) FetchShifts(_ context.Context) ([]catalogModel.ShiftModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.shifts, func(a, b catalogModel.ShiftModel) int {
		if a.StartTime.Before(b.StartTime) {
			return -1
		}
		if b.StartTime.Before(a.StartTime) {
			return 1
		}
		return strings.Compare(a.ShiftCode, b.ShiftCode)
	}), nil
}

func (s *MemoryStore) FetchSubjects(_ context.Context) ([]catalogModel.SubjectModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.subjects, func(a, b catalogModel.SubjectModel) int {
		return strings.Compare(a.SubjectCode, b.SubjectCode)
	}), nil
}

func (s *MemoryStore) FetchEnrollments(_ context.Context, subjectCode string) ([]catalogModel.EnrollmentModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalogModel.EnrollmentModel, 0)
	for _, e := range s.enrollments {
		if e.SubjectCode == subjectCode {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b catalogModel.EnrollmentModel) int {
		return strings.Compare(a.ClassCode, b.ClassCode)
	})
	return out, nil
}

/* =========================
   Writes
========================= */

func (s *MemoryStore) CreateTransaction(_ context.Context, in service.NewTransaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := dbtime.DateOnly(in.Date)
	for _, t := range s.transactions {
		if t.RoomNumber == in.RoomNumber && t.ShiftCode == in.ShiftCode &&
			dbtime.DateOnly(t.DateValue()).Equal(day) {
			return "", fmt.Errorf("%w: held by %s", constants.ErrAllocationConflict, t.TransactionCode)
		}
	}

	code := ""
	for i := 0; i < codeAttempts; i++ {
		c := s.NewCode()
		if _, taken := s.transactions[c]; !taken {
			code = c
			break
		}
	}
	if code == "" {
		return "", fmt.Errorf("could not generate a free transaction code")
	}

	now := s.Now()
	s.transactions[code] = m.ExamTransactionModel{
		TransactionCode: code,
		SubjectCode:     in.SubjectCode,
		Date:            m.NewDate(day),
		RoomNumber:      in.RoomNumber,
		ShiftCode:       in.ShiftCode,
		ClassCodes:      m.ClassCodes(pq.StringArray(slices.Clone(in.ClassCodes))),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return code, nil
}

func (s *MemoryStore) AssignProctor(ctx context.Context, transactionCode, assistantNIM string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.AssignHook != nil {
		if err := s.AssignHook(transactionCode, assistantNIM); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[transactionCode]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrTransactionNotFound, transactionCode)
	}
	nim := assistantNIM
	t.Proctor = &nim
	t.UpdatedAt = s.Now()
	s.transactions[transactionCode] = t
	return nil
}

func cloneTransaction(t m.ExamTransactionModel) m.ExamTransactionModel {
	t.ClassCodes = slices.Clone(t.ClassCodes)
	if t.Proctor != nil {
		p := *t.Proctor
		t.Proctor = &p
	}
	return t
}

func sortedValues[K comparable, V any](src map[K]V, cmp func(a, b V) int) []V {
	out := make([]V, 0, len(src))
	for _, v := range src {
		out = append(out, v)
	}
	slices.SortFunc(out, cmp)
	return out
}
