package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"debug"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// Firebase Identity Toolkit (client-side auth REST surface)
	FirebaseAPIKey  string `envconfig:"FIREBASE_API_KEY" required:"true"`
	FirebaseAuthURL string `envconfig:"FIREBASE_AUTH_URL" default:"https://identitytoolkit.googleapis.com/v1"`

	// Story generation and store service
	StoryAPIBaseURL string        `envconfig:"STORY_API_BASE_URL" default:"http://localhost:5000"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"90s"`

	// Platform speech synthesizer command, e.g. "espeak-ng" or "say".
	// Empty disables the speech capability.
	SpeechCommand string `envconfig:"SPEECH_COMMAND" default:"espeak-ng"`
}

// LoadConfig loads configuration from environment variables, optionally
// seeded from a .env file when one exists at envFilePath.
func LoadConfig(envFilePath string) (*Config, error) {
	if _, err := os.Stat(envFilePath); err == nil {
		if err := godotenv.Load(envFilePath); err != nil {
			log.Printf("Warning: could not load %s file: %v", envFilePath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: error checking %s file: %v", envFilePath, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	return &cfg, nil
}
