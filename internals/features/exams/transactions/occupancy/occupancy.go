// file: internals/features/exams/transactions/occupancy/occupancy.go
package occupancy

import (
	"cmp"
	"slices"
	"time"

	catalogModel "examku_backend/internals/features/exams/catalogs/model"
	m "examku_backend/internals/features/exams/transactions/model"
	"examku_backend/internals/helpers/dbtime"
)

// Cell is one (room, shift) slot on the matrix date.
type Cell struct {
	RoomNumber string
	ShiftCode  string
}

// Matrix tells which (room, shift) slots are taken on one date.
type Matrix struct {
	Date   time.Time
	Rooms  []string
	Shifts []string

	occupied map[Cell]string // cell → transaction_code
}

// Build derives the matrix for date. Transactions on other dates are
// ignored, so callers may pass either a pre-scoped or a full set.
func Build(
	transactions []m.ExamTransactionModel,
	rooms []catalogModel.RoomModel,
	shifts []catalogModel.ShiftModel,
	date time.Time,
) Matrix {
	day := dbtime.FormatDate(dbtime.DateOnly(date))

	mx := Matrix{
		Date:     dbtime.DateOnly(date),
		Rooms:    make([]string, 0, len(rooms)),
		Shifts:   make([]string, 0, len(shifts)),
		occupied: make(map[Cell]string),
	}
	for _, r := range rooms {
		mx.Rooms = append(mx.Rooms, r.RoomNumber)
	}
	for _, s := range shifts {
		mx.Shifts = append(mx.Shifts, s.ShiftCode)
	}

	for _, t := range transactions {
		if t.DateString() != day {
			continue
		}
		cell := Cell{RoomNumber: t.RoomNumber, ShiftCode: t.ShiftCode}
		// smallest code wins so the result does not depend on input order
		if cur, ok := mx.occupied[cell]; !ok || t.TransactionCode < cur {
			mx.occupied[cell] = t.TransactionCode
		}
	}
	return mx
}

// IsOccupied also covers slots whose room or shift is missing from the
// catalogs; an existing transaction is always a hard constraint.
func (mx Matrix) IsOccupied(room, shift string) bool {
	_, ok := mx.occupied[Cell{RoomNumber: room, ShiftCode: shift}]
	return ok
}

// OccupiedBy returns the transaction holding the slot, if any.
func (mx Matrix) OccupiedBy(room, shift string) (string, bool) {
	code, ok := mx.occupied[Cell{RoomNumber: room, ShiftCode: shift}]
	return code, ok
}

// OccupiedCount is the number of distinct occupied slots.
func (mx Matrix) OccupiedCount() int {
	return len(mx.occupied)
}

// Slot is an occupied cell with the transaction holding it.
type Slot struct {
	RoomNumber      string `json:"room_number"`
	ShiftCode       string `json:"shift_code"`
	TransactionCode string `json:"transaction_code"`
}

// OccupiedSlots lists every occupied cell ordered by room then shift.
func (mx Matrix) OccupiedSlots() []Slot {
	out := make([]Slot, 0, len(mx.occupied))
	for cell, code := range mx.occupied {
		out = append(out, Slot{RoomNumber: cell.RoomNumber, ShiftCode: cell.ShiftCode, TransactionCode: code})
	}
	slices.SortFunc(out, func(a, b Slot) int {
		return cmp.Or(cmp.Compare(a.RoomNumber, b.RoomNumber), cmp.Compare(a.ShiftCode, b.ShiftCode))
	})
	return out
}

// Row is one catalog room with the occupied flag per catalog shift.
type Row struct {
	RoomNumber string          `json:"room_number"`
	Shifts     map[string]bool `json:"shifts"`
}

// Rows enumerates catalog rooms x catalog shifts in catalog order.
func (mx Matrix) Rows() []Row {
	out := make([]Row, 0, len(mx.Rooms))
	for _, room := range mx.Rooms {
		row := Row{RoomNumber: room, Shifts: make(map[string]bool, len(mx.Shifts))}
		for _, shift := range mx.Shifts {
			row.Shifts[shift] = mx.IsOccupied(room, shift)
		}
		out = append(out, row)
	}
	return out
}

// FreeCells lists catalog slots that can still be allocated on the date.
func (mx Matrix) FreeCells() []Cell {
	var out []Cell
	for _, room := range mx.Rooms {
		for _, shift := range mx.Shifts {
			if !mx.IsOccupied(room, shift) {
				out = append(out, Cell{RoomNumber: room, ShiftCode: shift})
			}
		}
	}
	return out
}

// FreeRoomsForShift lists catalog rooms still free in shift.
func (mx Matrix) FreeRoomsForShift(shift string) []string {
	out := make([]string, 0, len(mx.Rooms))
	for _, room := range mx.Rooms {
		if !mx.IsOccupied(room, shift) {
			out = append(out, room)
		}
	}
	return out
}
