package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Embedding  EmbeddingConfig
	Dataset    DatasetConfig
	Classifier ClassifierConfig
	Match      MatchConfig
	Client     ClientConfig
	JWT        JWTConfig
	Admin      AdminConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver   string
	URL      string // DATABASE_URL, takes precedence over the discrete fields
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MinConns int32
	MaxConns int32

	SQLitePath string
}

// DSN returns DATABASE_URL when set, otherwise a keyword/value connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

const (
	ProviderHashing = "hashing"
	ProviderGlove   = "glove"
	ProviderGemini  = "gemini"
)

type EmbeddingConfig struct {
	Provider  string
	Dimension int

	GlovePath      string
	GloveCachePath string

	GeminiAPIKey string
	GeminiModel  string
}

type DatasetConfig struct {
	TrainingFile string
	SeedCache    string
}

type ClassifierConfig struct {
	ModelFile    string
	HiddenSize   int
	Epochs       int
	LearningRate float64
	BatchSize    int
	Threshold    float64
	Seed         int64
}

type MatchConfig struct {
	// MaxDistance bounds the cosine distance of an accepted nearest pattern. Zero disables the bound.
	MaxDistance float64
}

type ClientConfig struct {
	APIURL  string
	Timeout time.Duration
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

type AdminConfig struct {
	Username     string
	PasswordHash string // bcrypt
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work for Docker/K8s
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	clientTimeout, _ := strconv.Atoi(getEnv("API_TIMEOUT_SECONDS", "10"))

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8000"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", DriverPostgres),
			URL:        getEnv("DATABASE_URL", ""),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			DBName:     getEnv("DB_NAME", "chatbot"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			MinConns:   int32(getEnvAsInt("DB_MIN_CONNS", 1)),
			MaxConns:   int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			SQLitePath: getEnv("SQLITE_PATH", "chatbot.db"),
		},
		Embedding: EmbeddingConfig{
			Provider:       getEnv("EMBEDDING_PROVIDER", ProviderHashing),
			Dimension:      getEnvAsInt("EMBEDDING_DIMENSION", 384),
			GlovePath:      getEnv("GLOVE_PATH", "glove.6B.300d.txt"),
			GloveCachePath: getEnv("GLOVE_CACHE_PATH", "glove_embeddings.gob"),
			GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
			GeminiModel:    getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
		},
		Dataset: DatasetConfig{
			TrainingFile: getEnv("TRAINING_FILE", "trainingDataset.json"),
			SeedCache:    getEnv("SEED_CACHE_FILE", ".seed_cache.json"),
		},
		Classifier: ClassifierConfig{
			ModelFile:    getEnv("MODEL_FILE", "model_and_metadata.json"),
			HiddenSize:   getEnvAsInt("CLASSIFIER_HIDDEN_SIZE", 8),
			Epochs:       getEnvAsInt("CLASSIFIER_EPOCHS", 1000),
			LearningRate: getEnvAsFloat("CLASSIFIER_LEARNING_RATE", 0.01),
			BatchSize:    getEnvAsInt("CLASSIFIER_BATCH_SIZE", 8),
			Threshold:    getEnvAsFloat("CLASSIFIER_THRESHOLD", 0.75),
			Seed:         int64(getEnvAsInt("CLASSIFIER_SEED", 42)),
		},
		Match: MatchConfig{
			MaxDistance: getEnvAsFloat("MATCH_MAX_DISTANCE", 0),
		},
		Client: ClientConfig{
			APIURL:  getEnv("API_URL", "http://localhost:8000/predict"),
			Timeout: time.Duration(clientTimeout) * time.Second,
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "change-me"),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Embedding.Provider {
	case ProviderHashing, ProviderGlove, ProviderGemini:
	default:
		return fmt.Errorf("unsupported EMBEDDING_PROVIDER %q", c.Embedding.Provider)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", c.Embedding.Dimension)
	}
	if c.Database.MinConns < 0 || c.Database.MaxConns < 1 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("invalid pool bounds min=%d max=%d", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Classifier.Threshold < 0 || c.Classifier.Threshold >= 1 {
		return fmt.Errorf("CLASSIFIER_THRESHOLD must be in [0,1), got %v", c.Classifier.Threshold)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}
