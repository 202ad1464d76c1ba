package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"creator-scout/pkg/db"
	"creator-scout/pkg/domain"
	"creator-scout/pkg/keypool"
	"creator-scout/pkg/registry"
	"creator-scout/pkg/youtube"
)

// Fetcher is the slice of the YouTube client the discovery loop consumes.
type Fetcher interface {
	SearchChannels(ctx context.Context, keyword string, maxResults int64) ([]domain.SearchHit, error)
	FetchChannelProfile(ctx context.Context, channelID string) (*domain.Creator, error)
	FetchChannelVideos(ctx context.Context, channelID string, count int64) ([]domain.Video, error)
}

// FetcherFactory builds a fresh Fetcher bound to one API key. It runs again
// after every key rotation; the replacement starts with an empty video cache.
type FetcherFactory func(ctx context.Context, apiKey string) (Fetcher, error)

// Classifier decides whether a creator fits the target niche.
type Classifier interface {
	VerifyNiche(ctx context.Context, creator *domain.Creator, videos []domain.Video) (match bool, explanation, category string)
}

// Transcriber accepts fire-and-forget transcription jobs for accepted
// creators. Absence of a transcript never blocks or fails a record.
type Transcriber interface {
	Submit(ctx context.Context, videoID string, maxDurationMinutes int) (string, error)
	Result(ctx context.Context, requestID string) (domain.TranscriptionResult, error)
}

// UploadChecker answers whether a channel has published recently, from a
// source that costs no API quota.
type UploadChecker interface {
	HasRecentUploads(ctx context.Context, channelID string, since time.Time) bool
}

// CreatorSaver persists full creator profiles alongside the flat records.
type CreatorSaver interface {
	SaveCreator(ctx context.Context, creator *domain.Creator) error
}

// Config tunes one discovery run.
type Config struct {
	Keywords                []string
	Target                  int
	MaxChannelsPerKeyword   int
	SearchResultsPerKeyword int64
	VideosPerChannel        int64
	MinViewsPerVideo        int64
	MinQualifyingVideos     int
	PublishedAfter          time.Time
	ChannelDelay            time.Duration
	TranscribeMaxMinutes    int
	Shuffle                 bool
}

// DefaultConfig returns the tuning the production runs use.
func DefaultConfig() Config {
	return Config{
		Keywords:                DefaultKeywords,
		Target:                  30,
		MaxChannelsPerKeyword:   50,
		SearchResultsPerKeyword: 50,
		VideosPerChannel:        15,
		MinViewsPerVideo:        1000,
		MinQualifyingVideos:     8,
		PublishedAfter:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ChannelDelay:            500 * time.Millisecond,
		TranscribeMaxMinutes:    30,
		Shuffle:                 true,
	}
}

// Report summarizes a finished (or quota-terminated) run.
type Report struct {
	ChannelsProcessed int
	Matches           int
	TotalAPICalls     int
	CallsPerChannel   float64
	KeyUsage          []int
}

// Orchestrator owns the discovery loop. It is single-goroutine; every
// component it holds is an explicit instance handed in at construction.
type Orchestrator struct {
	cfg        Config
	pool       *keypool.Pool
	newFetcher FetcherFactory
	fetcher    Fetcher
	classifier Classifier
	reg        *registry.Registry
	sink       db.RecordSink
	logger     *log.Logger

	// Optional collaborators.
	transcriber Transcriber
	uploads     UploadChecker
	creators    CreatorSaver
}

// NewOrchestrator wires the mandatory collaborators. Optional ones attach
// through the With* setters.
func NewOrchestrator(cfg Config, pool *keypool.Pool, factory FetcherFactory, classifier Classifier, reg *registry.Registry, sink db.RecordSink, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		cfg:        cfg,
		pool:       pool,
		newFetcher: factory,
		classifier: classifier,
		reg:        reg,
		sink:       sink,
		logger:     logger,
	}
}

// WithTranscriber attaches a transcription client for accepted creators.
func (o *Orchestrator) WithTranscriber(t Transcriber) *Orchestrator {
	o.transcriber = t
	return o
}

// WithUploadChecker attaches a zero-quota recency pre-filter.
func (o *Orchestrator) WithUploadChecker(u UploadChecker) *Orchestrator {
	o.uploads = u
	return o
}

// WithCreatorSaver attaches a profile store for accepted creators.
func (o *Orchestrator) WithCreatorSaver(s CreatorSaver) *Orchestrator {
	o.creators = s
	return o
}

// Run executes the discovery loop until the target is met, the keywords are
// exhausted, or every API key is spent. On key exhaustion the report still
// carries the partial results and the returned error wraps
// keypool.ErrExhausted.
func (o *Orchestrator) Run(ctx context.Context) (Report, error) {
	keywords := append([]string(nil), o.cfg.Keywords...)
	if o.cfg.Shuffle {
		rand.Shuffle(len(keywords), func(i, j int) {
			keywords[i], keywords[j] = keywords[j], keywords[i]
		})
	}

	processed := 0
	matches := 0
	var runErr error

keywordLoop:
	for _, keyword := range keywords {
		if matches >= o.cfg.Target {
			o.logger.Printf("Target reached: %d creators found", matches)
			break
		}
		o.logger.Printf("Searching keyword %q (need %d more)", keyword, o.cfg.Target-matches)

		hits, err := o.search(ctx, keyword)
		if err != nil {
			if errors.Is(err, keypool.ErrExhausted) {
				runErr = fmt.Errorf("keyword %q: %w", keyword, err)
				break
			}
			o.logger.Printf("Search failed for %q: %v", keyword, err)
			continue
		}
		if len(hits) == 0 {
			o.logger.Printf("No channels found for keyword %q", keyword)
			continue
		}

		inKeyword := 0
		for _, hit := range hits {
			if matches >= o.cfg.Target {
				break keywordLoop
			}
			if inKeyword >= o.cfg.MaxChannelsPerKeyword {
				break
			}

			accepted, err := o.processChannel(ctx, hit)
			if err != nil {
				if errors.Is(err, keypool.ErrExhausted) {
					runErr = fmt.Errorf("channel %s: %w", hit.ChannelID, err)
					break keywordLoop
				}
				o.logger.Printf("Channel %s failed: %v", hit.ChannelID, err)
			}
			processed++
			inKeyword++
			if accepted {
				matches++
				o.logger.Printf("Match %d/%d: %s", matches, o.cfg.Target, hit.ChannelTitle)
			}

			if o.cfg.ChannelDelay > 0 {
				select {
				case <-ctx.Done():
					runErr = ctx.Err()
					break keywordLoop
				case <-time.After(o.cfg.ChannelDelay):
				}
			}
		}
	}

	report := Report{
		ChannelsProcessed: processed,
		Matches:           matches,
		TotalAPICalls:     o.pool.TotalCalls(),
		KeyUsage:          o.pool.UsageByKey(),
	}
	if processed > 0 {
		report.CallsPerChannel = float64(report.TotalAPICalls) / float64(processed)
	}
	return report, runErr
}

// processChannel takes one search hit through the full gauntlet. It returns
// true only when a record was persisted.
func (o *Orchestrator) processChannel(ctx context.Context, hit domain.SearchHit) (bool, error) {
	// Cheap gates first: the registry costs nothing, the uploads feed costs
	// no quota. Both run before any profile fetch.
	if o.reg.ContainsChannelID(hit.ChannelID) || o.reg.ContainsAny(hit.ChannelTitle) {
		o.logger.Printf("Skipping already discovered channel: %s", hit.ChannelTitle)
		return false, nil
	}
	if o.uploads != nil && !o.uploads.HasRecentUploads(ctx, hit.ChannelID, o.cfg.PublishedAfter) {
		o.logger.Printf("Skipping %s: no recent uploads", hit.ChannelTitle)
		return false, nil
	}

	var creator *domain.Creator
	err := o.withRotation(ctx, func(f Fetcher) error {
		var err error
		creator, err = f.FetchChannelProfile(ctx, hit.ChannelID)
		return err
	})
	if err != nil {
		return false, err
	}
	if creator == nil {
		// Outside the subscriber range or stats hidden.
		return false, nil
	}

	// Re-check with the resolved handle; the search hit only carried the
	// display title.
	if o.reg.ContainsAny(creator.Handle, creator.Title) {
		o.logger.Printf("Skipping already discovered channel: %s", creator.Handle)
		return false, nil
	}

	var videos []domain.Video
	err = o.withRotation(ctx, func(f Fetcher) error {
		var err error
		videos, err = f.FetchChannelVideos(ctx, hit.ChannelID, o.cfg.VideosPerChannel)
		return err
	})
	if err != nil {
		return false, err
	}
	if len(videos) == 0 {
		return false, nil
	}

	if !MeetsViewThreshold(videos, o.cfg.MinViewsPerVideo, o.cfg.MinQualifyingVideos) {
		o.logger.Printf("Skipping %s: too few videos above %d views", creator.Title, o.cfg.MinViewsPerVideo)
		return false, nil
	}

	match, explanation, category := o.classifier.VerifyNiche(ctx, creator, videos)
	if !match {
		o.logger.Printf("Not a match: %s (%s)", creator.Title, explanation)
		return false, nil
	}
	o.logger.Printf("Match found: %s (%s)", creator.Title, category)

	// Fire-and-forget: a transcript is a bonus, never a gate.
	requestID := ""
	if o.transcriber != nil {
		requestID, err = o.transcriber.Submit(ctx, videos[0].ID, o.cfg.TranscribeMaxMinutes)
		if err != nil {
			o.logger.Printf("Transcription submit failed for %s: %v", videos[0].ID, err)
			requestID = ""
		}
	}

	notes := explanation
	if requestID != "" {
		if res, err := o.transcriber.Result(ctx, requestID); err == nil && res.Status == domain.JobCompleted {
			notes = fmt.Sprintf("%s | transcript available (%s)", explanation, requestID)
		}
	}

	record := &domain.DiscoveryRecord{
		Name:          creator.Title,
		Handle:        creator.Handle,
		Platform:      "YT",
		FollowerCount: FollowerDisplay(creator.SubscriberCount),
		Engagement:    Engagement(videos),
		Niche:         category,
		Notes:         notes,
		Status:        "Found",
	}
	if err := o.sink.SaveRecord(ctx, record); err != nil {
		return false, err
	}

	o.reg.Add(creator.ChannelID, creator.Title, creator.Handle)

	if o.creators != nil {
		creator.DiscoveredAt = time.Now()
		if err := o.creators.SaveCreator(ctx, creator); err != nil {
			o.logger.Printf("Creator store save failed for %s: %v", creator.Handle, err)
		}
	}
	return true, nil
}

// search runs a keyword search under the rotation loop.
func (o *Orchestrator) search(ctx context.Context, keyword string) ([]domain.SearchHit, error) {
	var hits []domain.SearchHit
	err := o.withRotation(ctx, func(f Fetcher) error {
		var err error
		hits, err = f.SearchChannels(ctx, keyword, o.cfg.SearchResultsPerKeyword)
		return err
	})
	return hits, err
}

// withRotation runs op against the current fetcher, rotating to the next API
// key on quota errors. The loop is bounded by the pool size; once the last
// key is spent it returns keypool.ErrExhausted.
func (o *Orchestrator) withRotation(ctx context.Context, op func(Fetcher) error) error {
	for attempt := 0; attempt <= o.pool.Size(); attempt++ {
		if o.fetcher == nil {
			f, err := o.newFetcher(ctx, o.pool.Current())
			if err != nil {
				return fmt.Errorf("build fetcher for key %d: %w", o.pool.ActiveIndex()+1, err)
			}
			o.fetcher = f
		}

		err := op(o.fetcher)
		if err == nil {
			return nil
		}
		if !errors.Is(err, youtube.ErrQuotaExceeded) {
			return err
		}

		o.logger.Printf("Quota exceeded on key %d, rotating", o.pool.ActiveIndex()+1)
		if rotateErr := o.pool.Rotate(); rotateErr != nil {
			return fmt.Errorf("quota exceeded on final key: %w", rotateErr)
		}
		o.fetcher = nil
	}
	return fmt.Errorf("key rotation loop exceeded pool size: %w", keypool.ErrExhausted)
}
