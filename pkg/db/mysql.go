package db

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Settings describes the controller's MySQL connection.
type Settings struct {
	DSN  string
	Host string
	Port string
	User string
	Pass string
	Name string
}

// SettingsFromEnv reads MYSQL_DSN, or MYSQL_HOST, MYSQL_PORT, MYSQL_USER,
// MYSQL_PASS and MYSQL_DB, loading .env first when present.
func SettingsFromEnv() Settings {
	_ = loadDotEnv()
	return Settings{
		DSN:  os.Getenv("MYSQL_DSN"),
		Host: getenv("MYSQL_HOST", "127.0.0.1"),
		Port: getenv("MYSQL_PORT", "3306"),
		User: getenv("MYSQL_USER", "root"),
		Pass: getenv("MYSQL_PASS", ""),
		Name: getenv("MYSQL_DB", "netcheck"),
	}
}

// DataSource returns the DSN, building it from the parts when DSN is empty.
func (s Settings) DataSource() string {
	if s.DSN != "" {
		return s.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC", s.User, s.Pass, s.Host, s.Port, s.Name)
}

// Init connects to MySQL, creating the database when it is missing.
// Schema migration is left to the stores.
func Init(s Settings) (*gorm.DB, error) {
	dsn := s.DataSource()
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	db, err := gorm.Open(mysql.Open(dsn), cfg)
	if err != nil {
		if !strings.Contains(err.Error(), "Unknown database") || s.DSN != "" {
			return nil, err
		}
		if cerr := createDatabase(s); cerr != nil {
			return nil, fmt.Errorf("create database failed: %w", cerr)
		}
		db, err = gorm.Open(mysql.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	return db, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

func createDatabase(s Settings) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/", s.User, s.Pass, s.Host, s.Port)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET utf8mb4", s.Name))
	return err
}
