// file: internals/features/exams/catalogs/model/room_model.go
package model

type RoomModel struct {
	RoomNumber   string `json:"room_number" gorm:"column:room_number;type:varchar(64);primaryKey"`
	RoomCapacity int    `json:"room_capacity" gorm:"column:room_capacity;not null"`
	Campus       string `json:"campus" gorm:"column:campus;type:varchar(128);not null"`
}

func (RoomModel) TableName() string {
	return "rooms"
}
