package database

import (
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"examku_backend/internals/configs"
	catalogModel "examku_backend/internals/features/exams/catalogs/model"
	trxModel "examku_backend/internals/features/exams/transactions/model"
)

var DB *gorm.DB

func ConnectDB() {
	log := configs.Log.WithField("driver", configs.DBDriver)
	log.Info("🔌 Connecting to database...")

	db, err := gorm.Open(dialector(), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.WithError(err).Fatal("❌ Failed to connect DB")
	}
	DB = db
	log.Info("✅ DB connected.")
}

func dialector() gorm.Dialector {
	switch configs.DBDriver {
	case "mysql":
		port := configs.DBPort
		if port == "" {
			port = "3306"
		}
		// parseTime agar kolom DATE/TIME ter-scan sebagai time.Time;
		// clientFoundRows agar UPDATE idempoten tetap melaporkan baris yang cocok
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&clientFoundRows=true",
			configs.DBUser, configs.DBPassword, configs.DBHost, port, configs.DBName)
		return mysql.Open(dsn)
	default:
		port := configs.DBPort
		if port == "" {
			port = "5432"
		}
		// statement_timeout selaras dengan timeout request HTTP
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=examku&options=%s",
			url.QueryEscape(configs.DBUser),
			url.QueryEscape(configs.DBPassword),
			configs.DBHost,
			port,
			configs.DBName,
			configs.DBSSLMode,
			url.QueryEscape("-c statement_timeout=3000"),
		)
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
		})
	}
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		configs.Log.WithError(err).Warn("pool tune err")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates the exam tables when they do not exist yet.
func Migrate() error {
	return DB.AutoMigrate(
		&catalogModel.SubjectModel{},
		&catalogModel.RoomModel{},
		&catalogModel.ShiftModel{},
		&catalogModel.UserModel{},
		&catalogModel.EnrollmentModel{},
		&trxModel.ExamTransactionModel{},
	)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		if err := Ping(); err != nil {
			configs.Log.WithError(err).Warn("warm-up ping err")
		}
	}()
}

// Ping checks the pool; /health uses it.
func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
