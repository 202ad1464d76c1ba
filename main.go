package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"

	"creator-scout/pkg/ai"
	"creator-scout/pkg/config"
	"creator-scout/pkg/db"
	"creator-scout/pkg/discovery"
	"creator-scout/pkg/keypool"
	"creator-scout/pkg/registry"
	"creator-scout/pkg/sink"
	"creator-scout/pkg/transcribe"
	"creator-scout/pkg/youtube"
)

func main() {
	var (
		target       = flag.Int("target", 0, "Number of creators to find (0 uses TARGET_CREATORS or 30)")
		keywordsCSV  = flag.String("keywords", "", "Comma-separated search keywords (default: built-in list)")
		out          = flag.String("out", "influencers.csv", "Results CSV file, also used to skip known creators")
		registryPath = flag.String("registry", "", "Extra results CSV whose creators are skipped")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("Configuration error: %v", err)
	}
	if *target > 0 {
		cfg.TargetCreators = *target
	}

	pool, err := keypool.Load(cfg.YouTubeKeys)
	if err != nil {
		logger.Fatalf("API key pool: %v", err)
	}

	ctx := context.Background()

	reg := registry.New(logger)
	if err := reg.LoadCSV(*out); err != nil {
		logger.Fatalf("Load registry from %s: %v", *out, err)
	}
	if *registryPath != "" {
		if err := reg.LoadCSV(*registryPath); err != nil {
			logger.Fatalf("Load registry from %s: %v", *registryPath, err)
		}
	}

	csvSink := sink.NewCSVSink(*out)
	sinks := []db.RecordSink{csvSink}

	var creatorStore *db.CreatorStore
	if cfg.MongoURI != "" {
		store := db.NewCreatorStore(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err := store.Connect(ctx); err != nil {
			logger.Printf("MongoDB unavailable, profiles will not be stored: %v", err)
		} else {
			defer store.Close(ctx)
			creatorStore = store
			if err := reg.SeedFromStore(ctx, store); err != nil {
				logger.Printf("Registry seed from store failed: %v", err)
			}
		}
	}
	if cfg.PostgresDSN != "" {
		pg := db.NewPostgresStore(db.PostgresConfig{DSN: cfg.PostgresDSN})
		if err := pg.Connect(ctx); err != nil {
			logger.Printf("Postgres unavailable, records go to CSV only: %v", err)
		} else {
			defer pg.Close()
			if err := pg.EnsureSchema(ctx); err != nil {
				logger.Fatalf("Postgres schema: %v", err)
			}
			sinks = append(sinks, pg)
		}
	}
	var recordSink db.RecordSink = csvSink
	if len(sinks) > 1 {
		recordSink = sink.NewMulti(sinks...)
	}

	var providers []ai.Provider
	if cfg.GroqKey != "" {
		providers = append(providers, ai.NewGroqProvider(cfg.GroqKey))
	}
	if cfg.AnthropicKey != "" {
		providers = append(providers, ai.NewAnthropicProvider(cfg.AnthropicKey))
	}
	if len(providers) == 0 {
		logger.Fatal("No AI provider configured; set GROQ_API_KEY or ANTHROPIC_API_KEY")
	}
	analyzer := ai.NewAnalyzer(cfg.AIDelay, logger, providers...)

	dcfg := discovery.DefaultConfig()
	dcfg.Target = cfg.TargetCreators
	dcfg.VideosPerChannel = cfg.VideosPerChannel
	dcfg.MinViewsPerVideo = cfg.MinViewsPerVideo
	dcfg.MinQualifyingVideos = cfg.MinQualifyingVideos
	if *keywordsCSV != "" {
		var keywords []string
		for _, kw := range strings.Split(*keywordsCSV, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		dcfg.Keywords = keywords
	}

	factory := func(ctx context.Context, apiKey string) (discovery.Fetcher, error) {
		client, err := youtube.NewClient(ctx, apiKey, cfg.MinSubscribers, cfg.MaxSubscribers)
		if err != nil {
			return nil, err
		}
		client.SetPublishedAfter(dcfg.PublishedAfter)
		client.SetOnCall(pool.RecordUsage)
		return client, nil
	}

	orch := discovery.NewOrchestrator(dcfg, pool, factory, analyzer, reg, recordSink, logger)
	orch.WithUploadChecker(youtube.NewFeedReader())
	if creatorStore != nil {
		orch.WithCreatorSaver(creatorStore)
	}

	whisper := transcribe.NewClient(cfg.WhisperURL)
	if whisper.Health(ctx) {
		orch.WithTranscriber(whisper)
	} else {
		logger.Printf("Transcription server unavailable at %s, continuing without transcripts", cfg.WhisperURL)
	}

	report, runErr := orch.Run(ctx)

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Println("\nDiscovery results")
	green.Printf("  Found: %d/%d creators\n", report.Matches, dcfg.Target)
	bold.Printf("  Channels analyzed: %d\n", report.ChannelsProcessed)
	bold.Printf("  Total API calls: %d\n", report.TotalAPICalls)
	if report.ChannelsProcessed > 0 {
		bold.Printf("  Efficiency: %.1f calls per channel\n", report.CallsPerChannel)
	}
	for i, calls := range report.KeyUsage {
		bold.Printf("  Key %d: %d calls\n", i+1, calls)
	}
	bold.Printf("  Results saved in: %s\n", *out)

	if runErr != nil {
		if errors.Is(runErr, keypool.ErrExhausted) {
			yellow.Printf("\nAll API keys exhausted after finding %d creators.\n", report.Matches)
		} else {
			yellow.Printf("\nRun ended early: %v\n", runErr)
		}
		os.Exit(1)
	}
}
