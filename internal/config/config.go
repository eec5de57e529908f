package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config структура конфигурации
type Config struct {
	JWTSecret      string
	DatabaseURL    string
	DatabaseConfig DatabaseConfig
	AdminConfig    AdminConfig
	AppEnv         string // Окружение приложения
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AdminConfig содержит учетные данные административного входа.
// Пара логин/пароль задается только через окружение и никогда
// не зашивается в исходный код.
type AdminConfig struct {
	Username string
	Password string
	Email    string
	FullName string
}

// LoadConfig загружает переменные из .env
func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "bazaar_user"),
		Password: getEnv("PGPASSWORD", "bazaar_pass"),
		Name:     getEnv("PGDATABASE", "bazaar"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	// Формируем строку подключения к базе данных
	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)

	adminConfig := AdminConfig{
		Username: getEnv("ADMIN_USERNAME", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
		Email:    getEnv("ADMIN_EMAIL", "admin@campusbazaar.internal"),
		FullName: getEnv("ADMIN_FULL_NAME", "System Administrator"),
	}

	cfg := &Config{
		JWTSecret:      getEnv("JWT_SECRET", ""),
		DatabaseURL:    dbURL,
		DatabaseConfig: dbConfig,
		AdminConfig:    adminConfig,
		AppEnv:         getEnv("APP_ENV", "production"), // По умолчанию production
	}

	if cfg.JWTSecret == "" || cfg.AdminConfig.Username == "" || cfg.AdminConfig.Password == "" {
		log.Fatal("❌ Ошибка: Не заданы обязательные переменные окружения (JWT_SECRET, ADMIN_USERNAME, ADMIN_PASSWORD)")
	}

	return cfg
}

// getEnv получает переменную окружения или использует дефолтное значение
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
