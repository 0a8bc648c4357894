package profile

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server. It is populated
// once from the environment at startup and treated as immutable afterwards.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// DSN points to where quizflow stores its own data
	DSN string

	// AI configuration
	AIBaseURL        string // QUIZFLOW_AI_BASE_URL (default: https://api.openai.com/v1)
	AIAPIKey         string // QUIZFLOW_AI_API_KEY
	AIEmbeddingModel string // QUIZFLOW_AI_EMBEDDING_MODEL (default: text-embedding-3-small)
	AIEmbeddingDim   int    // QUIZFLOW_AI_EMBEDDING_DIM (default: 1536)
	AIChatModel      string // QUIZFLOW_AI_CHAT_MODEL (default: gpt-4o-mini)

	// RAG and drift configuration
	RAGTopK                    int // QUIZFLOW_RAG_TOP_K (default: 3)
	ExplanationCooldownSeconds int // QUIZFLOW_EXPLANATION_COOLDOWN_SECONDS (default: 180)
	DriftAICooldownSeconds     int // QUIZFLOW_DRIFT_AI_COOLDOWN_SECONDS (default: 120)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if a generation credential is configured.
// Without a credential the drift classifier and the RAG generator degrade
// to their heuristic/templated paths.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvOrDefault returns the environment variable parsed as int, or the
// default when unset or unparseable.
func getIntEnvOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("QUIZFLOW_MODE", "dev")
	p.Addr = os.Getenv("QUIZFLOW_ADDR")
	p.Port = getIntEnvOrDefault("QUIZFLOW_PORT", 8081)
	p.Driver = getEnvOrDefault("QUIZFLOW_DRIVER", "sqlite")
	p.DSN = getEnvOrDefault("QUIZFLOW_DSN", "quizflow.db")

	p.AIBaseURL = getEnvOrDefault("QUIZFLOW_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIAPIKey = os.Getenv("QUIZFLOW_AI_API_KEY")
	p.AIEmbeddingModel = getEnvOrDefault("QUIZFLOW_AI_EMBEDDING_MODEL", "text-embedding-3-small")
	p.AIEmbeddingDim = getIntEnvOrDefault("QUIZFLOW_AI_EMBEDDING_DIM", 1536)
	p.AIChatModel = getEnvOrDefault("QUIZFLOW_AI_CHAT_MODEL", "gpt-4o-mini")

	p.RAGTopK = getIntEnvOrDefault("QUIZFLOW_RAG_TOP_K", 3)
	p.ExplanationCooldownSeconds = getIntEnvOrDefault("QUIZFLOW_EXPLANATION_COOLDOWN_SECONDS", 180)
	p.DriftAICooldownSeconds = getIntEnvOrDefault("QUIZFLOW_DRIFT_AI_COOLDOWN_SECONDS", 120)
}

// Validate checks that the profile is usable.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		return errors.Errorf("invalid mode: %s", p.Mode)
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unknown db driver: %s (only 'postgres' and 'sqlite' are supported)", p.Driver)
	}
	if p.DSN == "" {
		return errors.New("dsn is required")
	}
	if p.AIEmbeddingDim <= 0 {
		return errors.Errorf("invalid embedding dimension: %d", p.AIEmbeddingDim)
	}
	if p.RAGTopK <= 0 {
		return errors.Errorf("invalid RAG top-k: %d", p.RAGTopK)
	}
	return nil
}

// GetProfile loads and validates the profile from the environment.
func GetProfile() (*Profile, error) {
	profile := &Profile{}
	profile.FromEnv()
	if err := profile.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid profile")
	}
	return profile, nil
}
