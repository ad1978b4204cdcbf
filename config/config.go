package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	// BackendSQL stores patient records through gorm.
	BackendSQL = "sql"
	// BackendFirestore stores patient records in Cloud Firestore.
	BackendFirestore = "firestore"

	defaultCollection = "scans"
	defaultSessionTTL = time.Hour
	defaultMessageTTL = 3 * time.Second
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`
	DBHost  string `json:"dbhost"`
	DBPort  uint16 `json:"dbport"`
	DBName  string `json:"dbname"`
	DBUSER  string `json:"dbuser"`
	DBPass  string `json:"dbpass"`

	RecordBackend      string        `json:"record_backend"`
	RecordCollection   string        `json:"record_collection"`
	FirebaseProjectID  string        `json:"firebase_project_id"`
	FirebaseCredential string        `json:"firebase_credential"`
	SessionTTL         time.Duration `json:"session_ttl"`
	MessageTTL         time.Duration `json:"message_ttl"`
	CORSOrigins        []string      `json:"cors_origins"`
	GeoIPPath          string        `json:"geoip_path"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
// A missing .env file is not an error; the process environment is used as is.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded (%v), using process environment", err)
		}
		config = fromEnv()
	})
	return config
}

func fromEnv() *Config {
	appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
	dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("RECORD_BACKEND")))
	if backend != BackendFirestore {
		backend = BackendSQL
	}

	collection := os.Getenv("RECORD_COLLECTION")
	if collection == "" {
		collection = defaultCollection
	}

	return &Config{
		AppName:            os.Getenv("APPNAME"),
		AppEnv:             os.Getenv("APPENV"),
		AppPort:            uint16(appPort),
		GinMode:            os.Getenv("GINMODE"),
		DBHost:             os.Getenv("DBHOST"),
		DBPort:             uint16(dbPort),
		DBName:             os.Getenv("DBNAME"),
		DBUSER:             os.Getenv("DBUSER"),
		DBPass:             os.Getenv("DBPASS"),
		RecordBackend:      backend,
		RecordCollection:   collection,
		FirebaseProjectID:  os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredential: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		SessionTTL:         durationEnv("SESSION_TTL", defaultSessionTTL),
		MessageTTL:         durationEnv("MESSAGE_TTL", defaultMessageTTL),
		CORSOrigins:        listEnv("CORS_ORIGINS"),
		GeoIPPath:          os.Getenv("GEOIP_DB_PATH"),
	}
}

// durationEnv parses a Go duration ("90s", "1h"); invalid or non-positive values fall back.
func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s value %q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsTest reports whether the application runs under APPENV=test.
func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

// ConnectMySQL establishes a connection to a MySQL database using the configuration values.
// Under APPENV=test it opens a private in-memory SQLite database instead.
func ConnectMySQL() (*gorm.DB, error) {
	if os.Getenv("APPENV") == "test" {
		dsn := fmt.Sprintf("file:registry_%d?mode=memory&cache=shared", time.Now().UnixNano())
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}

	cfg := LoadConfig()
	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
