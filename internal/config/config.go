package config

import (
	"log"
	"os"
	"path/filepath"
)

type Config struct {
	Port      string
	DBDSN     string
	PublicDir string
	LogFile   string
	AdminUser string
	AdminPass string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "threadline.db" // sqlite file in project root
	}
	public := os.Getenv("PUBLIC_DIR")
	if public == "" {
		public = "./web/public"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./threadline.log"
	}
	adminUser := os.Getenv("ADMIN_USER")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPass := os.Getenv("ADMIN_PASSWORD")

	cfg := Config{Port: port, DBDSN: dsn, PublicDir: public, LogFile: logFile,
		AdminUser: adminUser, AdminPass: adminPass}
	log.Printf("[config] PORT=%s DB_DSN=%s PUBLIC_DIR=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.PublicDir, cfg.LogFile)
	return cfg
}

// UploadsDir is where product images land, under the public root.
func (c Config) UploadsDir() string { return filepath.Join(c.PublicDir, "uploads") }
