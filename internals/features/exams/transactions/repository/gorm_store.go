// file: internals/features/exams/transactions/repository/gorm_store.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"examku_backend/internals/constants"
	catalogModel "examku_backend/internals/features/exams/catalogs/model"
	m "examku_backend/internals/features/exams/transactions/model"
	"examku_backend/internals/features/exams/transactions/service"
)

const codeAttempts = 5

// NewTransactionCode returns "TH" followed by six random digits.
func NewTransactionCode() string {
	return fmt.Sprintf("TH%06d", rand.IntN(1_000_000))
}

type GormStore struct {
	DB      *gorm.DB
	NewCode func() string
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db, NewCode: NewTransactionCode}
}

var _ service.Store = (*GormStore)(nil)

func (s *GormStore) FetchTransactions(ctx context.Context) ([]m.ExamTransactionModel, error) {
	var rows []m.ExamTransactionModel
	err := s.DB.WithContext(ctx).
		Order("date ASC, shift_code ASC, transaction_code ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) FetchTransactionsOnDate(ctx context.Context, date time.Time) ([]m.ExamTransactionModel, error) {
	var rows []m.ExamTransactionModel
	err := s.DB.WithContext(ctx).
		Where("date = ?", m.NewDate(date)).
		Order("shift_code ASC, room_number ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) FetchUsers(ctx context.Context) ([]catalogModel.UserModel, error) {
	var rows []catalogModel.UserModel
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (s *GormStore) FetchRooms(ctx context.Context) ([]catalogModel.RoomModel, error) {
	var rows []catalogModel.RoomModel
	err := s.DB.WithContext(ctx).Order("room_number ASC").Find(&rows).Error
	return rows, err
}

func (s *GormStore) FetchShifts(ctx context.Context) ([]catalogModel.ShiftModel, error) {
	var rows []catalogModel.ShiftModel
	err := s.DB.WithContext(ctx).Order("start_time ASC").Find(&rows).Error
	return rows, err
}

func (s *GormStore) FetchSubjects(ctx context.Context) ([]catalogModel.SubjectModel, error) {
	var rows []catalogModel.SubjectModel
	err := s.DB.WithContext(ctx).Order("subject_code ASC").Find(&rows).Error
	return rows, err
}

func (s *GormStore) FetchEnrollments(ctx context.Context, subjectCode string) ([]catalogModel.EnrollmentModel, error) {
	var rows []catalogModel.EnrollmentModel
	err := s.DB.WithContext(ctx).
		Where("subject_code = ?", subjectCode).
		Order("class_code ASC").
		Find(&rows).Error
	return rows, err
}

// CreateTransaction locks the slot rows, re-checks occupancy and inserts.
// The unique index on (date, room_number, shift_code) backs the check.
func (s *GormStore) CreateTransaction(ctx context.Context, in service.NewTransaction) (string, error) {
	var code string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken []string
		if err := tx.Model(&m.ExamTransactionModel{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ? AND room_number = ? AND shift_code = ?", m.NewDate(in.Date), in.RoomNumber, in.ShiftCode).
			Pluck("transaction_code", &taken).Error; err != nil {
			return err
		}
		if len(taken) > 0 {
			return fmt.Errorf("%w: held by %s", constants.ErrAllocationConflict, taken[0])
		}

		c, err := s.freeCode(tx)
		if err != nil {
			return err
		}

		row := m.ExamTransactionModel{
			TransactionCode: c,
			SubjectCode:     in.SubjectCode,
			Date:            m.NewDate(in.Date),
			RoomNumber:      in.RoomNumber,
			ShiftCode:       in.ShiftCode,
			ClassCodes:      m.ClassCodes(pq.StringArray(in.ClassCodes)),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return constants.ErrAllocationConflict
			}
			return err
		}
		code = c
		return nil
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *GormStore) freeCode(tx *gorm.DB) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		c := s.NewCode()
		var n int64
		if err := tx.Model(&m.ExamTransactionModel{}).Where("transaction_code = ?", c).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return c, nil
		}
	}
	return "", errors.New("could not generate a free transaction code")
}

// AssignProctor overwrites the proctor; repeating it is harmless.
func (s *GormStore) AssignProctor(ctx context.Context, transactionCode, assistantNIM string) error {
	res := s.DB.WithContext(ctx).
		Model(&m.ExamTransactionModel{}).
		Where("transaction_code = ?", transactionCode).
		Update("proctor", assistantNIM)
	if res.Error != nil {
		return fmt.Errorf("update proctor of %s: %w", transactionCode, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", constants.ErrTransactionNotFound, transactionCode)
	}
	return nil
}

// Deteksi unique violation Postgres ("23505") / MySQL (1062)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "duplicate entry")
}
