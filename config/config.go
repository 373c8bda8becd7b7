package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// JWTSecret returns the token signing key. Read at use time rather than at
// package init, so a JWT_SECRET that only arrives via .env is honored.
func JWTSecret() []byte {
	return []byte(GetEnv("JWT_SECRET", "sotos_super_secret_2024"))
}

// defaultMenu seeds a fresh install with the house menu.
var defaultMenu = []models.MenuItem{
	{Name: "Cono Pizza", Price: 5.00},
	{Name: "Cono Pizza XXL", Price: 8.00},
	{Name: "Rac. Papas Fritas", Price: 4.00},
	{Name: "Banderilla", Price: 4.00},
	{Name: "Refresco Peq.", Price: 2.50},
	{Name: "Refresco Grande", Price: 4.00},
}

// defaultPasswords seed the four role secrets. The jefe is expected to
// rotate these from the password manager.
var defaultPasswords = map[models.UserRole]string{
	models.RoleMesero:   "Sotos_Mesas",
	models.RoleCocina:   "Cocina_X",
	models.RoleDelivery: "Entrega_S",
	models.RoleJefe:     "Soto_Admin",
}

// LoadEnv reads a .env file if present. Missing files are fine; real
// environment variables always win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env file: %v", err)
	}
}

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetEnvDuration parses a duration env var, falling back on absence or
// parse failure.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// NewLogger builds the application logger. Development gets the console
// encoder, everything else structured JSON.
func NewLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if GetEnv("APP_ENV", "development") == "development" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zl, err := cfg.Build()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	return zl
}

// InitDB opens the sqlite database, migrates the schema and installs seed
// data on a fresh install.
func InitDB() *gorm.DB {
	dsn := GetEnv("DB_PATH", "sotos_app.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected and migrated successfully")
	return db
}

// Migrate applies the schema and seed data. Split out from InitDB so tests
// can run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.RolePassword{},
		&models.Broadcast{},
	)
	if err != nil {
		return err
	}
	if err := seedMenu(db); err != nil {
		return err
	}
	return seedPasswords(db)
}

func seedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for rank, item := range defaultMenu {
		item.ID = uuid.NewString()
		item.Rank = rank
		if err := db.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedPasswords(db *gorm.DB) error {
	for role, secret := range defaultPasswords {
		var existing models.RolePassword
		if err := db.Where("role = ?", role).First(&existing).Error; err == nil {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		rp := models.RolePassword{Role: role, Hash: string(hash), ChangedAt: time.Now()}
		if err := db.Create(&rp).Error; err != nil {
			return err
		}
	}
	return nil
}
