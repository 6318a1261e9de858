package configs

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zona waktu kampus tetap jalan di image tanpa tzdata

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	DBDriver   string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string

	CampusTimezone string

	PairingRetainFailed      bool
	PairingCommitConcurrency int
	PairingCommitTimeout     time.Duration
	PairingSessionTTL        time.Duration

	SeedOnStart bool

	Port             string
	CorsAllowOrigins string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			Log.Warn("⚠️ .env file not found, falling back to system ENV")
		} else {
			Log.Info("✅ .env file loaded")
		}
	} else {
		Log.Info("🚀 Running in Railway, using system ENV")
	}

	InitLogger(GetEnv("LOG_LEVEL", "info"), GetEnv("LOG_FORMAT", "text"))

	DBDriver = strings.ToLower(GetEnv("DB_DRIVER", "postgres"))
	DBUser = GetEnv("DB_USER")
	DBPassword = GetEnv("DB_PASSWORD")
	DBHost = GetEnv("DB_HOST", "localhost")
	DBPort = GetEnv("DB_PORT")
	DBName = GetEnv("DB_NAME", "sr_exam")
	DBSSLMode = GetEnv("DB_SSLMODE", "require")

	CampusTimezone = GetEnv("CAMPUS_TIMEZONE", "Asia/Jakarta")

	PairingRetainFailed = GetEnvBool("PAIRING_RETAIN_FAILED", true)
	PairingCommitConcurrency = GetEnvInt("PAIRING_COMMIT_CONCURRENCY", 8)
	PairingCommitTimeout = GetEnvDuration("PAIRING_COMMIT_TIMEOUT", 3*time.Second)
	PairingSessionTTL = GetEnvDuration("PAIRING_SESSION_TTL", 2*time.Hour)

	SeedOnStart = GetEnvBool("SEED_ON_START", false)

	Port = GetEnv("PORT", "8080")
	CorsAllowOrigins = GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173, http://localhost:1420, http://127.0.0.1:5500")

	switch DBDriver {
	case "memory":
		Log.Warn("⚠️ DB_DRIVER=memory, data hilang saat proses berhenti")
	case "postgres", "mysql":
		if DBUser == "" {
			Log.Error("❌ DB_USER is not set!")
		}
	default:
		Log.WithField("driver", DBDriver).Error("❌ DB_DRIVER must be postgres, mysql or memory")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		Log.WithField("key", key).Warnf("invalid bool %q, using default %v", v, def)
		return def
	}
	return b
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		Log.WithField("key", key).Warnf("invalid int %q, using default %d", v, def)
		return def
	}
	return n
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		Log.WithField("key", key).Warnf("invalid duration %q, using default %s", v, def)
		return def
	}
	return d
}

// CampusLocation resolves CAMPUS_TIMEZONE, falling back to UTC.
func CampusLocation() *time.Location {
	if loc, err := time.LoadLocation(CampusTimezone); err == nil && CampusTimezone != "" {
		return loc
	}
	return time.UTC
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	Entry         *logrus.Entry
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
		Entry:         Log.WithField("component", "gorm"),
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.Entry.Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.Entry.Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.Entry.Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := logrus.Fields{
		"file":    utils.FileWithLineNum(),
		"elapsed": elapsed.String(),
		"rows":    rows,
	}

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		l.Entry.WithFields(fields).WithError(err).Error(sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		l.Entry.WithFields(fields).Warn("[SLOW SQL] " + sql)
	case l.LogLevel >= gormLogger.Info:
		l.Entry.WithFields(fields).Debug(sql)
	}
}
