// Package config loads run settings from the environment, with a .env file
// overlay for local development.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// maxExtraKeys bounds the YOUTUBE_API_KEY_N scan.
const maxExtraKeys = 10

// Config is everything a discovery run reads from the environment.
type Config struct {
	// YouTubeKeys holds the API keys in rotation order. Never empty.
	YouTubeKeys []string

	GroqKey      string
	AnthropicKey string
	AIDelay      time.Duration

	MinSubscribers      int64
	MaxSubscribers      int64
	MinViewsPerVideo    int64
	MinQualifyingVideos int
	VideosPerChannel    int64
	TargetCreators      int

	WhisperURL       string
	WhisperQueueSize int
	WhisperModelSize string

	// Optional storage backends. Empty means disabled.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	PostgresDSN     string
}

// Load reads the environment, overlaying a .env file when one exists. It
// fails fast when no YouTube key is configured; everything else has a
// default or is optional.
func Load(logger *log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := godotenv.Load(); err == nil {
		logger.Printf("Loaded environment from .env")
	}

	keys := loadYouTubeKeys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("no YOUTUBE_API_KEY found in environment")
	}
	logger.Printf("Loaded %d YouTube API key(s)", len(keys))

	cfg := &Config{
		YouTubeKeys:  keys,
		GroqKey:      os.Getenv("GROQ_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		AIDelay:      time.Duration(envFloat("AI_DELAY_SECONDS", 2.0) * float64(time.Second)),

		MinSubscribers:      envInt64("MIN_SUBSCRIBERS", 10000),
		MaxSubscribers:      envInt64("MAX_SUBSCRIBERS", 100000),
		MinViewsPerVideo:    envInt64("MIN_VIEWS_PER_VIDEO", 1000),
		MinQualifyingVideos: int(envInt64("MIN_QUALIFYING_VIDEOS", 8)),
		VideosPerChannel:    envInt64("VIDEOS_PER_CHANNEL", 15),
		TargetCreators:      int(envInt64("TARGET_CREATORS", 30)),

		WhisperURL:       envString("WHISPER_URL", "http://localhost:5001"),
		WhisperQueueSize: int(envInt64("WHISPER_QUEUE_SIZE", 10)),
		WhisperModelSize: envString("WHISPER_MODEL_SIZE", "base"),

		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDatabase:   envString("MONGO_DATABASE", "creatorscout"),
		MongoCollection: envString("MONGO_COLLECTION", "creators"),
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
	}

	if cfg.GroqKey == "" && cfg.AnthropicKey == "" {
		logger.Printf("Warning: no AI provider keys configured, classification will be unavailable")
	}
	return cfg, nil
}

// loadYouTubeKeys reads the primary key plus numbered secondaries in order.
// Gaps end the scan, so YOUTUBE_API_KEY_2 and _4 without _3 yields two keys.
func loadYouTubeKeys() []string {
	var keys []string
	if k := os.Getenv("YOUTUBE_API_KEY"); k != "" {
		keys = append(keys, k)
	}
	for i := 2; i <= maxExtraKeys; i++ {
		k := os.Getenv(fmt.Sprintf("YOUTUBE_API_KEY_%d", i))
		if k == "" {
			break
		}
		keys = append(keys, k)
	}
	return keys
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt64(name string, fallback int64) int64 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(name string, fallback float64) float64 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
