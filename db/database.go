package db

import (
	"database/sql"
	"fmt"
	"log"

	"MuseFM/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
// Requires MySQL 8+: the audio category search uses REGEXP with
// backslash-escaped patterns, which needs the ICU regex engine.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
// The GORM-managed tables (musics, favorites) are migrated separately via
// AutoMigrateModels.
func InitDB() error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createAudiosTable(); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable() error {
	// password_hash is NULL for social-auth accounts. refresh_token holds the
	// single currently valid refresh token per user.
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id CHAR(24) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255),
		provider VARCHAR(32) NOT NULL DEFAULT 'email',
		refresh_token TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	log.Println("Users table initialized successfully (or already exists).")
	return nil
}

func createAudiosTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS audios (
		id CHAR(24) PRIMARY KEY,
		title VARCHAR(255),
		category VARCHAR(255),
		duration INT NOT NULL DEFAULT 0,
		audio_url VARCHAR(1024),
		source VARCHAR(64) NOT NULL DEFAULT 'ai_generated',
		license_type VARCHAR(255),
		license_url VARCHAR(1024),
		original_audio_url VARCHAR(1024),
		artist_name VARCHAR(255),
		attribution_required BOOLEAN NOT NULL DEFAULT FALSE,
		is_redistribution_allowed BOOLEAN NOT NULL DEFAULT FALSE,
		usage_notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create audios table: %w", err)
	}
	log.Println("Audios table initialized successfully (or already exists).")
	return nil
}
