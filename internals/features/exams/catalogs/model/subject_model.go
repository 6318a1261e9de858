// file: internals/features/exams/catalogs/model/subject_model.go
package model

type SubjectModel struct {
	SubjectCode string `json:"subject_code" gorm:"column:subject_code;type:varchar(64);primaryKey"`
	SubjectName string `json:"subject_name" gorm:"column:subject_name;type:varchar(255);not null"`
}

func (SubjectModel) TableName() string {
	return "subjects"
}
