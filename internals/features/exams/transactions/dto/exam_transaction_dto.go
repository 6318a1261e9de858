package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	m "examku_backend/internals/features/exams/transactions/model"
	"examku_backend/internals/features/exams/transactions/occupancy"
	"examku_backend/internals/features/exams/transactions/service"
	"examku_backend/internals/helpers/dbtime"
)

// RegisterValidators menambahkan rule custom yang dipakai DTO exam.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("exam_date", func(fl validator.FieldLevel) bool {
		_, err := dbtime.ParseDate(fl.Field().String())
		return err == nil
	})
}

/* =========================================================
   ALLOCATE
   ========================================================= */

type AllocateExamRequest struct {
	SubjectCode string   `json:"subject_code" validate:"required,max=64"`
	ClassCodes  []string `json:"class_codes" validate:"omitempty,dive,max=64"`
	Date        string   `json:"date" validate:"required,exam_date"`
	ShiftCode   string   `json:"shift_code" validate:"required,max=32"`
	RoomNumber  string   `json:"room_number" validate:"required,max=64"`
}

func (r *AllocateExamRequest) Normalize() {
	r.SubjectCode = strings.TrimSpace(r.SubjectCode)
	r.Date = strings.TrimSpace(r.Date)
	r.ShiftCode = strings.TrimSpace(r.ShiftCode)
	r.RoomNumber = strings.TrimSpace(r.RoomNumber)
}

// ToInput dipanggil setelah validasi, jadi Date sudah pasti valid.
func (r AllocateExamRequest) ToInput() service.AllocateInput {
	d, _ := dbtime.ParseDate(r.Date)
	return service.AllocateInput{
		SubjectCode: r.SubjectCode,
		ClassCodes:  r.ClassCodes,
		Date:        d,
		ShiftCode:   r.ShiftCode,
		RoomNumber:  r.RoomNumber,
	}
}

type AllocateExamResponse struct {
	TransactionCode string `json:"transaction_code"`
	Message         string `json:"message"`
}

/* =========================================================
   PROCTOR
   ========================================================= */

type AssignProctorRequest struct {
	AssistantNIM string `json:"assistant_nim" validate:"required,max=64"`
}

/* =========================================================
   RESPONSE
   ========================================================= */

type ExamTransactionResponse struct {
	TransactionCode string   `json:"transaction_code"`
	SubjectCode     string   `json:"subject_code"`
	SubjectName     string   `json:"subject_name,omitempty"`
	Date            string   `json:"date"`
	RoomNumber      string   `json:"room_number"`
	ShiftCode       string   `json:"shift_code"`
	Proctor         *string  `json:"proctor"`
	ClassCodes      []string `json:"class_codes"`
}

func FromModel(t m.ExamTransactionModel, subjectNames map[string]string) ExamTransactionResponse {
	classes := []string(t.ClassCodes)
	if classes == nil {
		classes = []string{}
	}
	return ExamTransactionResponse{
		TransactionCode: t.TransactionCode,
		SubjectCode:     t.SubjectCode,
		SubjectName:     subjectNames[t.SubjectCode],
		Date:            t.DateString(),
		RoomNumber:      t.RoomNumber,
		ShiftCode:       t.ShiftCode,
		Proctor:         t.Proctor,
		ClassCodes:      classes,
	}
}

func FromModels(rows []m.ExamTransactionModel, subjectNames map[string]string) []ExamTransactionResponse {
	out := make([]ExamTransactionResponse, 0, len(rows))
	for _, t := range rows {
		out = append(out, FromModel(t, subjectNames))
	}
	return out
}

/* =========================================================
   OCCUPANCY
   ========================================================= */

type OccupancyResponse struct {
	Date     string           `json:"date"`
	Rooms    []string         `json:"rooms"`
	Shifts   []string         `json:"shifts"`
	Rows     []occupancy.Row  `json:"rows"`
	Occupied []occupancy.Slot `json:"occupied"`
	// jumlah slot terisi, termasuk ruang/shift di luar katalog
	OccupiedCount int                 `json:"occupied_count"`
	FreeCount     int                 `json:"free_count"`
	FreeRooms     map[string][]string `json:"free_rooms"` // shift_code -> ruang kosong
}

func FromMatrix(mx occupancy.Matrix) OccupancyResponse {
	freeRooms := make(map[string][]string, len(mx.Shifts))
	for _, shift := range mx.Shifts {
		freeRooms[shift] = mx.FreeRoomsForShift(shift)
	}
	return OccupancyResponse{
		Date:          dbtime.FormatDate(mx.Date),
		Rooms:         mx.Rooms,
		Shifts:        mx.Shifts,
		Rows:          mx.Rows(),
		Occupied:      mx.OccupiedSlots(),
		OccupiedCount: mx.OccupiedCount(),
		FreeCount:     len(mx.FreeCells()),
		FreeRooms:     freeRooms,
	}
}
