// file: internals/features/exams/catalogs/model/user_model.go
package model

import (
	"slices"

	"examku_backend/internals/constants"
)

type UserModel struct {
	NIM      string  `json:"nim" gorm:"column:nim;type:varchar(64);primaryKey"`
	BNNumber string  `json:"bn_number" gorm:"column:bn_number;type:varchar(64);not null"`
	Name     string  `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Major    string  `json:"major" gorm:"column:major;type:varchar(255)"`
	Role     string  `json:"role" gorm:"column:role;type:varchar(64);index"`
	Initial  *string `json:"initial,omitempty" gorm:"column:initial;type:varchar(32)"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u UserModel) IsAssistant() bool {
	return slices.Contains(constants.ProctorRoles, u.Role)
}

// OnlyAssistants keeps the users that may proctor, preserving order.
func OnlyAssistants(users []UserModel) []UserModel {
	out := make([]UserModel, 0, len(users))
	for _, u := range users {
		if u.IsAssistant() {
			out = append(out, u)
		}
	}
	return out
}
