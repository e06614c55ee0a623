package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vnkhanh/bookclub-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

type Settings struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimeZone string
	DBVerbose  bool

	SessionSecret string
	SecureCookies bool
	RedisURL      string
	CORSOrigins   []string

	AuthRatePerMin   int
	InviteRatePerMin int
}

// Load reads .env (if present) and the process environment.
func Load() Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	return Settings{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "bookclub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBTimeZone: getEnv("DB_TIMEZONE", "UTC"),
		DBVerbose:  getEnv("DB_VERBOSE", "false") == "true",

		SessionSecret: getEnv("SESSION_SECRET", "bookclub-dev-secret"),
		SecureCookies: getEnv("SESSION_SECURE", "false") == "true",
		RedisURL:      getEnv("REDIS_URL", ""),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		AuthRatePerMin:   getEnvInt("AUTH_RATE_PER_MIN", 10),
		InviteRatePerMin: getEnvInt("INVITE_RATE_PER_MIN", 30),
	}
}

func (s Settings) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		s.DBHost, s.DBUser, s.DBPassword, s.DBName, s.DBPort, s.DBSSLMode, s.DBTimeZone)
}

// GormConfig is shared by the Postgres connection and the sqlite test databases.
func GormConfig(verbose bool) *gorm.Config {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				Colorful:                  verbose,
			},
		),
	}
}

// ConnectDB opens PostgreSQL, retrying while the server comes up, then migrates.
func ConnectDB(s Settings) {
	var db *gorm.DB
	var err error

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(s.DSN()), GormConfig(s.DBVerbose))
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	DB = db
	log.Println("Connected to PostgreSQL & migrated successfully")
}

// Migrate registers the participants join table and migrates every model.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Room{}, "Participants", &models.RoomParticipant{}); err != nil {
		return fmt.Errorf("setup join table failed: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Room{},
		&models.RoomParticipant{},
		&models.Message{},
		&models.Invitation{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
