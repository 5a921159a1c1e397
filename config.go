package main

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/korylprince/questionnaire-relay/relay"
)

//Config represents options given in the environment
type Config struct {
	ListenAddr    string //addr format used for net.Listen; default: :3000
	AllowedOrigin string //front end origin allowed by CORS; default: http://localhost:5173

	AIEndpoint string //OpenAI compatible chat completions URL; default: Gemini
	AIModel    string //default: gemini-2.0-flash
	AIKey      string //required

	GenerateTimeout int //in seconds; 0 means no limit

	QuestionsFile string //optional YAML question list
	LogFile       string //optional rotated log file
	Debug         bool
}

//Timeout returns GenerateTimeout as a time.Duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.GenerateTimeout) * time.Second
}

var config = &Config{}

func checkEmpty(val, name string) {
	if val == "" {
		log.Fatalf("RELAY_%s must be configured\n", name)
	}
}

func init() {
	// a .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalln("Error reading .env file:", err)
	}

	err := envconfig.Process("RELAY", config)
	if err != nil {
		log.Fatalln("Error reading configuration from environment:", err)
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":3000"
	}

	if config.AllowedOrigin == "" {
		config.AllowedOrigin = "http://localhost:5173"
	}

	if config.AIEndpoint == "" {
		config.AIEndpoint = relay.DefaultAIEndpoint
	}

	if config.AIModel == "" {
		config.AIModel = relay.DefaultAIModel
	}

	if config.GenerateTimeout < 0 {
		log.Fatalln("RELAY_GENERATETIMEOUT must not be negative")
	}

	checkEmpty(config.AIKey, "AIKEY")
}
