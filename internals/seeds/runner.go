package seeds

import (
	"gorm.io/gorm"

	"examku_backend/internals/configs"
	exams "examku_backend/internals/seeds/exams"
)

const ExamSeedFile = "internals/seeds/exams/data_exams.json"

func RunAllSeeds(db *gorm.DB) {

	//* Exams (shifts, catalogs, sample transactions)
	if err := exams.SeedExamsFromJSON(db, ExamSeedFile); err != nil {
		configs.Log.WithError(err).Error("❌ Seed exams gagal")
	}

}
