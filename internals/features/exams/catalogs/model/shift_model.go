// file: internals/features/exams/catalogs/model/shift_model.go
package model

import (
	"fmt"

	"gorm.io/gorm"

	"examku_backend/internals/constants"
	"examku_backend/internals/helpers/dbtime"
)

// ShiftModel is one fixed exam time block; StartTime is always before EndTime.
type ShiftModel struct {
	ShiftCode string     `json:"shift_code" gorm:"column:shift_code;type:varchar(32);primaryKey"`
	StartTime dbtime.Tod `json:"start_time" gorm:"column:start_time;not null"`
	EndTime   dbtime.Tod `json:"end_time" gorm:"column:end_time;not null"`
}

func (ShiftModel) TableName() string {
	return "shifts"
}

// IsOrdered reports whether the shift starts before it ends.
func (s ShiftModel) IsOrdered() bool {
	return s.StartTime.Before(s.EndTime)
}

// Validate rejects a shift that does not start before it ends.
func (s ShiftModel) Validate() error {
	if !s.IsOrdered() {
		return fmt.Errorf("%w: shift %s %s-%s", constants.ErrShiftNotOrdered,
			s.ShiftCode, s.StartTime.Format("15:04"), s.EndTime.Format("15:04"))
	}
	return nil
}

// BeforeSave keeps reversed shifts out of the table.
func (s *ShiftModel) BeforeSave(_ *gorm.DB) error {
	return s.Validate()
}
