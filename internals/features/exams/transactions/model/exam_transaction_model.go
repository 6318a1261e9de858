// file: internals/features/exams/transactions/model/exam_transaction_model.go
package model

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"examku_backend/internals/helpers/dbtime"
)

/* =======================================================
   ExamTransactionModel : map ke tabel transaction_header
   ======================================================= */

type ExamTransactionModel struct {
	TransactionCode string `json:"transaction_code" gorm:"column:transaction_code;type:varchar(32);primaryKey"`
	SubjectCode     string `json:"subject_code" gorm:"column:subject_code;type:varchar(64);not null;index"`

	// Satu slot (date, room, shift) hanya boleh dipakai satu transaksi
	Date       datatypes.Date `json:"date" gorm:"column:date;not null;uniqueIndex:uq_transaction_slot,priority:1"`
	RoomNumber string         `json:"room_number" gorm:"column:room_number;type:varchar(64);not null;uniqueIndex:uq_transaction_slot,priority:2"`
	ShiftCode  string         `json:"shift_code" gorm:"column:shift_code;type:varchar(32);not null;uniqueIndex:uq_transaction_slot,priority:3"`

	Proctor    *string    `json:"proctor" gorm:"column:proctor;type:varchar(64)"`
	ClassCodes ClassCodes `json:"class_codes" gorm:"column:class_codes"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (ExamTransactionModel) TableName() string {
	return "transaction_header"
}

// DateValue returns the exam date as time.Time.
func (m ExamTransactionModel) DateValue() time.Time {
	return time.Time(m.Date)
}

// DateString renders the exam date as YYYY-MM-DD.
func (m ExamTransactionModel) DateString() string {
	return dbtime.FormatDate(m.DateValue())
}

// ProctorNIM returns the assigned proctor or "" when none.
func (m ExamTransactionModel) ProctorNIM() string {
	if m.Proctor == nil {
		return ""
	}
	return *m.Proctor
}

// NewDate wraps a calendar date for the Date column.
func NewDate(t time.Time) datatypes.Date {
	return datatypes.Date(dbtime.DateOnly(t))
}

/* =======================================================
   ClassCodes : text[] di Postgres, text di MySQL
   ======================================================= */

type ClassCodes pq.StringArray

func (c ClassCodes) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	return pq.StringArray(c).Value()
}

func (c *ClassCodes) Scan(src any) error {
	return (*pq.StringArray)(c).Scan(src)
}

func (ClassCodes) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
