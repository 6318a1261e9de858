// file: internals/features/exams/catalogs/model/enrollment_model.go
package model

// EnrollmentModel maps a class to the subject it takes.
type EnrollmentModel struct {
	ClassCode   string `json:"class_code" gorm:"column:class_code;type:varchar(64);primaryKey"`
	SubjectCode string `json:"subject_code" gorm:"column:subject_code;type:varchar(64);not null;index"`
	NIM         string `json:"nim" gorm:"column:nim;type:varchar(64);not null"`
}

func (EnrollmentModel) TableName() string {
	return "enrollments"
}
