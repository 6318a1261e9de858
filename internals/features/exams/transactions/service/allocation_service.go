// file: internals/features/exams/transactions/service/allocation_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"examku_backend/internals/constants"
	catalogModel "examku_backend/internals/features/exams/catalogs/model"
	"examku_backend/internals/features/exams/proctoring/pairing"
	m "examku_backend/internals/features/exams/transactions/model"
	"examku_backend/internals/features/exams/transactions/occupancy"
	"examku_backend/internals/features/exams/transactions/specification"
	"examku_backend/internals/helpers/dbtime"
)

/* =========================
   Store (persistence port)
========================= */

// Store is the persistence the engine reads snapshots from and writes
// allocations and proctor assignments to.
type Store interface {
	FetchTransactions(ctx context.Context) ([]m.ExamTransactionModel, error)
	FetchTransactionsOnDate(ctx context.Context, date time.Time) ([]m.ExamTransactionModel, error)
	FetchUsers(ctx context.Context) ([]catalogModel.UserModel, error)
	FetchRooms(ctx context.Context) ([]catalogModel.RoomModel, error)
	FetchShifts(ctx context.Context) ([]catalogModel.ShiftModel, error)
	FetchSubjects(ctx context.Context) ([]catalogModel.SubjectModel, error)
	FetchEnrollments(ctx context.Context, subjectCode string) ([]catalogModel.EnrollmentModel, error)

	// CreateTransaction re-checks the slot atomically and returns
	// constants.ErrAllocationConflict when it is taken.
	CreateTransaction(ctx context.Context, in NewTransaction) (string, error)
	AssignProctor(ctx context.Context, transactionCode, assistantNIM string) error
}

type NewTransaction struct {
	SubjectCode string
	ClassCodes  []string
	Date        time.Time
	ShiftCode   string
	RoomNumber  string
}

/* =========================
   Service
========================= */

type AllocationService struct {
	Store    Store
	Location *time.Location
	Pairing  pairing.Options
	Now      func() time.Time
	Log      *logrus.Entry
}

func NewAllocationService(store Store, loc *time.Location, pairingOpts pairing.Options, log *logrus.Entry) *AllocationService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &AllocationService{
		Store:    store,
		Location: loc,
		Pairing:  pairingOpts,
		Now:      time.Now,
		Log:      log.WithField("service", "exam_allocation"),
	}
}

// Search returns the transactions matching every present criterion.
func (s *AllocationService) Search(ctx context.Context, criteria specification.Criteria) ([]m.ExamTransactionModel, error) {
	all, err := s.Store.FetchTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return specification.Filter(all, criteria), nil
}

// Occupancy builds the room × shift matrix for date.
func (s *AllocationService) Occupancy(ctx context.Context, date time.Time) (occupancy.Matrix, error) {
	day := dbtime.DateOnly(date)

	onDate, err := s.Store.FetchTransactionsOnDate(ctx, day)
	if err != nil {
		return occupancy.Matrix{}, fmt.Errorf("fetch transactions on %s: %w", dbtime.FormatDate(day), err)
	}
	rooms, err := s.Store.FetchRooms(ctx)
	if err != nil {
		return occupancy.Matrix{}, fmt.Errorf("fetch rooms: %w", err)
	}
	shifts, err := s.Store.FetchShifts(ctx)
	if err != nil {
		return occupancy.Matrix{}, fmt.Errorf("fetch shifts: %w", err)
	}
	return occupancy.Build(onDate, rooms, shifts, day), nil
}

type AllocateInput struct {
	SubjectCode string
	ClassCodes  []string
	Date        time.Time
	ShiftCode   string
	RoomNumber  string
}

// Allocate validates the request, rejects occupied slots and creates the
// transaction. Nothing is written unless every check passes.
func (s *AllocationService) Allocate(ctx context.Context, in AllocateInput) (string, error) {
	in = normalizeAllocate(in)

	if !dbtime.IsAfterToday(in.Date, s.Now(), s.Location) {
		return "", fmt.Errorf("%w (got %s, today %s)", constants.ErrInvalidDate,
			dbtime.FormatDate(in.Date), dbtime.FormatDate(dbtime.Today(s.Now(), s.Location)))
	}
	switch {
	case in.SubjectCode == "":
		return "", constants.ErrMissingSubject
	case in.RoomNumber == "":
		return "", constants.ErrMissingRoom
	case in.ShiftCode == "":
		return "", constants.ErrMissingShift
	}

	if err := s.checkCatalogs(ctx, in); err != nil {
		return "", err
	}

	mx, err := s.Occupancy(ctx, in.Date)
	if err != nil {
		return "", err
	}
	if code, taken := mx.OccupiedBy(in.RoomNumber, in.ShiftCode); taken {
		return "", fmt.Errorf("%w: room %s shift %s on %s is held by %s", constants.ErrAllocationConflict,
			in.RoomNumber, in.ShiftCode, dbtime.FormatDate(in.Date), code)
	}

	code, err := s.Store.CreateTransaction(ctx, NewTransaction(in))
	if err != nil {
		return "", err
	}

	s.Log.WithFields(logrus.Fields{
		"transaction_code": code,
		"subject_code":     in.SubjectCode,
		"class_codes":      in.ClassCodes,
		"date":             dbtime.FormatDate(in.Date),
		"shift_code":       in.ShiftCode,
		"room_number":      in.RoomNumber,
	}).Info("exam allocated")
	return code, nil
}

func normalizeAllocate(in AllocateInput) AllocateInput {
	in.SubjectCode = strings.TrimSpace(in.SubjectCode)
	in.RoomNumber = strings.TrimSpace(in.RoomNumber)
	in.ShiftCode = strings.TrimSpace(in.ShiftCode)
	in.Date = dbtime.DateOnly(in.Date)

	seen := make(map[string]bool, len(in.ClassCodes))
	classes := make([]string, 0, len(in.ClassCodes))
	for _, c := range in.ClassCodes {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		classes = append(classes, c)
	}
	in.ClassCodes = classes
	return in
}

func (s *AllocationService) checkCatalogs(ctx context.Context, in AllocateInput) error {
	subjects, err := s.Store.FetchSubjects(ctx)
	if err != nil {
		return fmt.Errorf("fetch subjects: %w", err)
	}
	if !containsSubject(subjects, in.SubjectCode) {
		return fmt.Errorf("%w: %s", constants.ErrUnknownSubject, in.SubjectCode)
	}

	rooms, err := s.Store.FetchRooms(ctx)
	if err != nil {
		return fmt.Errorf("fetch rooms: %w", err)
	}
	if !containsRoom(rooms, in.RoomNumber) {
		return fmt.Errorf("%w: %s", constants.ErrUnknownRoom, in.RoomNumber)
	}

	shifts, err := s.Store.FetchShifts(ctx)
	if err != nil {
		return fmt.Errorf("fetch shifts: %w", err)
	}
	if !containsShift(shifts, in.ShiftCode) {
		return fmt.Errorf("%w: %s", constants.ErrUnknownShift, in.ShiftCode)
	}

	if len(in.ClassCodes) == 0 {
		return nil
	}
	enrollments, err := s.Store.FetchEnrollments(ctx, in.SubjectCode)
	if err != nil {
		return fmt.Errorf("fetch enrollments: %w", err)
	}
	enrolled := make(map[string]bool, len(enrollments))
	for _, e := range enrollments {
		enrolled[e.ClassCode] = true
	}
	for _, c := range in.ClassCodes {
		if !enrolled[c] {
			return fmt.Errorf("%w: %s not in %s", constants.ErrUnknownClass, c, in.SubjectCode)
		}
	}
	return nil
}

func containsSubject(xs []catalogModel.SubjectModel, code string) bool {
	for _, x := range xs {
		if x.SubjectCode == code {
			return true
		}
	}
	return false
}

func containsRoom(xs []catalogModel.RoomModel, number string) bool {
	for _, x := range xs {
		if x.RoomNumber == number {
			return true
		}
	}
	return false
}

func containsShift(xs []catalogModel.ShiftModel, code string) bool {
	for _, x := range xs {
		if x.ShiftCode == code {
			return true
		}
	}
	return false
}
