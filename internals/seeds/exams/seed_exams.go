package exams

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"examku_backend/internals/configs"
	"examku_backend/internals/constants"
	catalogModel "examku_backend/internals/features/exams/catalogs/model"
	trxModel "examku_backend/internals/features/exams/transactions/model"
	"examku_backend/internals/features/exams/transactions/repository"
	"examku_backend/internals/helpers/dbtime"
)

// Struktur sesuai dengan isi data_exams.json
type TransactionSeed struct {
	TransactionCode string   `json:"transaction_code"`
	SubjectCode     string   `json:"subject_code"`
	Date            string   `json:"date"`
	RoomNumber      string   `json:"room_number"`
	ShiftCode       string   `json:"shift_code"`
	ClassCodes      []string `json:"class_codes"`
	Proctor         *string  `json:"proctor"`
}

type ExamSeed struct {
	Rooms        []catalogModel.RoomModel       `json:"rooms"`
	Subjects     []catalogModel.SubjectModel    `json:"subjects"`
	Shifts       []catalogModel.ShiftModel      `json:"shifts"`
	Users        []catalogModel.UserModel       `json:"users"`
	Enrollments  []catalogModel.EnrollmentModel `json:"enrollments"`
	Transactions []TransactionSeed              `json:"transactions"`
}

// DefaultShifts is the fixed catalogue: seven two-hour blocks from 07:00 to 21:00.
func DefaultShifts() []catalogModel.ShiftModel {
	out := make([]catalogModel.ShiftModel, 0, 7)
	for i := 0; i < 7; i++ {
		start := 7 + 2*i
		out = append(out, catalogModel.ShiftModel{
			ShiftCode: fmt.Sprint(i + 1),
			StartTime: dbtime.NewTod(start, 0),
			EndTime:   dbtime.NewTod(start+2, 0),
		})
	}
	return out
}

func LoadExamSeed(filePath string) (ExamSeed, error) {
	var seed ExamSeed
	file, err := os.ReadFile(filePath)
	if err != nil {
		return seed, fmt.Errorf("read %s: %w", filePath, err)
	}
	if err := sonic.Unmarshal(file, &seed); err != nil {
		return seed, fmt.Errorf("decode %s: %w", filePath, err)
	}
	for _, sh := range seed.ShiftCatalogue() {
		if err := sh.Validate(); err != nil {
			return seed, fmt.Errorf("%s: %w", filePath, err)
		}
	}
	for _, u := range seed.Users {
		if !constants.IsRole(u.Role) {
			return seed, fmt.Errorf("%w: user %s has unknown role %q", constants.ErrValidation, u.NIM, u.Role)
		}
	}
	return seed, nil
}

// ShiftCatalogue is the seed's own shift list, or DefaultShifts when absent.
func (s ExamSeed) ShiftCatalogue() []catalogModel.ShiftModel {
	if len(s.Shifts) > 0 {
		return s.Shifts
	}
	return DefaultShifts()
}

// TransactionModels parses the seed dates into transaction rows.
func (s ExamSeed) TransactionModels() ([]trxModel.ExamTransactionModel, error) {
	out := make([]trxModel.ExamTransactionModel, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		d, err := dbtime.ParseDate(t.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.TransactionCode, err)
		}
		out = append(out, trxModel.ExamTransactionModel{
			TransactionCode: t.TransactionCode,
			SubjectCode:     t.SubjectCode,
			Date:            trxModel.NewDate(d),
			RoomNumber:      t.RoomNumber,
			ShiftCode:       t.ShiftCode,
			Proctor:         t.Proctor,
			ClassCodes:      trxModel.ClassCodes(pq.StringArray(t.ClassCodes)),
		})
	}
	return out, nil
}

// SeedExamsFromJSON inserts the shift catalogue and the sample data;
// rows that already exist are skipped.
func SeedExamsFromJSON(db *gorm.DB, filePath string) error {
	log := configs.Log.WithField("seed", filePath)
	log.Info("📥 Membaca file seed")

	seed, err := LoadExamSeed(filePath)
	if err != nil {
		return err
	}
	transactions, err := seed.TransactionModels()
	if err != nil {
		return err
	}

	shifts := seed.ShiftCatalogue()
	steps := []struct {
		name string
		rows any
		n    int
	}{
		{"shifts", &shifts, len(shifts)},
		{"rooms", &seed.Rooms, len(seed.Rooms)},
		{"subjects", &seed.Subjects, len(seed.Subjects)},
		{"users", &seed.Users, len(seed.Users)},
		{"enrollments", &seed.Enrollments, len(seed.Enrollments)},
		{"transaction_header", &transactions, len(transactions)},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, st := range steps {
			if st.n == 0 {
				continue
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(st.rows)
			if res.Error != nil {
				return fmt.Errorf("seed %s: %w", st.name, res.Error)
			}
			log.WithField("table", st.name).Infof("✅ %d/%d baris baru", res.RowsAffected, st.n)
		}
		return nil
	})
}

// FillMemoryStore loads the shift catalogue and the sample data into ms.
func FillMemoryStore(ms *repository.MemoryStore, filePath string) error {
	seed, err := LoadExamSeed(filePath)
	if err != nil {
		return err
	}
	transactions, err := seed.TransactionModels()
	if err != nil {
		return err
	}
	ms.PutShifts(seed.ShiftCatalogue()...)
	ms.PutRooms(seed.Rooms...)
	ms.PutSubjects(seed.Subjects...)
	ms.PutUsers(seed.Users...)
	ms.PutEnrollments(seed.Enrollments...)
	ms.PutTransactions(transactions...)
	return nil
}
