// Package youtube wraps the quota-bounded YouTube Data API behind a
// call-minimizing fetch client: candidate videos are fetched with exactly two
// underlying calls (one search, one batched detail request) and cached so
// every downstream stage works from the same fetch.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"creator-scout/pkg/domain"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// ErrQuotaExceeded signals that the active API key has spent its daily quota.
// The caller is expected to rotate credentials and retry the same step; no
// partial result accompanies this error.
var ErrQuotaExceeded = errors.New("youtube API quota exceeded")

// Client performs all YouTube Data API calls for one credential. The video
// cache lives as long as the client; rotating credentials constructs a new
// client, so the cache is intentionally dropped on rotation.
type Client struct {
	svc   *yt.Service
	cache map[string]domain.Video

	minSubscribers int64
	maxSubscribers int64
	publishedAfter time.Time

	// onCall, when set, is invoked once per underlying API call so the owner
	// can track quota usage per credential.
	onCall func()
}

// NewClient builds a client bound to a single API key. Extra options are
// passed through to the underlying service (used by tests to point the client
// at a fake endpoint).
func NewClient(ctx context.Context, apiKey string, minSubscribers, maxSubscribers int64, opts ...option.ClientOption) (*Client, error) {
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{
		svc:            svc,
		cache:          make(map[string]domain.Video),
		minSubscribers: minSubscribers,
		maxSubscribers: maxSubscribers,
	}, nil
}

// SetPublishedAfter biases video search toward recent content so discovery
// favors active creators. A zero time disables the bias.
func (c *Client) SetPublishedAfter(t time.Time) {
	c.publishedAfter = t
}

// SetOnCall registers a callback invoked once per underlying API call.
func (c *Client) SetOnCall(fn func()) {
	c.onCall = fn
}

func (c *Client) countCall() {
	if c.onCall != nil {
		c.onCall()
	}
}

// SearchChannels runs one video search for the keyword and extracts the
// distinct channels behind the results (video-to-channel discovery: searching
// videos surfaces smaller creators that a channel search would rank out).
func (c *Client) SearchChannels(ctx context.Context, keyword string, maxResults int64) ([]domain.SearchHit, error) {
	c.countCall()

	call := c.svc.Search.List([]string{"snippet"}).
		Q(keyword).
		Type("video").
		Order("relevance").
		MaxResults(maxResults).
		Context(ctx)
	if !c.publishedAfter.IsZero() {
		call = call.PublishedAfter(c.publishedAfter.Format(time.RFC3339))
	}

	resp, err := call.Do()
	if err != nil {
		return nil, wrapQuota(err, "search videos for %q", keyword)
	}

	seen := make(map[string]bool)
	hits := make([]domain.SearchHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.ChannelId == "" {
			continue
		}
		if seen[item.Snippet.ChannelId] {
			continue
		}
		seen[item.Snippet.ChannelId] = true
		hits = append(hits, domain.SearchHit{
			ChannelID:    item.Snippet.ChannelId,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}
	return hits, nil
}

// FetchChannelProfile fetches subscriber/video/view counts for a channel in
// one call and applies the subscriber admission range. A profile outside the
// range (or with hidden subscriber counts) returns (nil, nil): a filtering
// outcome, not a failure.
func (c *Client) FetchChannelProfile(ctx context.Context, channelID string) (*domain.Creator, error) {
	c.countCall()

	resp, err := c.svc.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapQuota(err, "fetch channel %s", channelID)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	ch := resp.Items[0]
	if ch.Statistics == nil || ch.Statistics.HiddenSubscriberCount {
		return nil, nil
	}
	subs := int64(ch.Statistics.SubscriberCount)
	if subs < c.minSubscribers || subs > c.maxSubscribers {
		return nil, nil
	}

	handle := channelID
	if ch.Snippet != nil && ch.Snippet.CustomUrl != "" {
		handle = strings.TrimPrefix(ch.Snippet.CustomUrl, "@")
	}

	creator := &domain.Creator{
		ChannelID:       channelID,
		SubscriberCount: subs,
		VideoCount:      int64(ch.Statistics.VideoCount),
		ViewCount:       int64(ch.Statistics.ViewCount),
		Handle:          "@" + handle,
		DiscoveredAt:    time.Now().UTC(),
	}
	if ch.Snippet != nil {
		creator.Title = ch.Snippet.Title
		creator.Description = ch.Snippet.Description
	}
	return creator, nil
}

// FetchChannelVideos returns the channel's most recent videos with their
// statistics using exactly two API calls: one uploads search bounded to count
// results, then one batched videos.list for every returned id. All videos are
// cached by id as a side effect. On a quota signal the error carries no
// partial result, so the whole call can be retried after rotation.
func (c *Client) FetchChannelVideos(ctx context.Context, channelID string, count int64) ([]domain.Video, error) {
	c.countCall()

	searchResp, err := c.svc.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(count).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapQuota(err, "search uploads of %s", channelID)
	}
	if len(searchResp.Items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	c.countCall()

	videosResp, err := c.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapQuota(err, "fetch video details for %s", channelID)
	}

	videos := make([]domain.Video, 0, len(videosResp.Items))
	for _, v := range videosResp.Items {
		video := domain.Video{ID: v.Id}
		if v.Snippet != nil {
			video.Title = v.Snippet.Title
			video.Description = v.Snippet.Description
			if ts, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
				video.PublishedAt = ts
			}
		}
		if v.Statistics != nil {
			video.ViewCount = int64(v.Statistics.ViewCount)
			video.CommentCount = int64(v.Statistics.CommentCount)
		}
		if v.ContentDetails != nil {
			video.DurationSeconds = ParseDuration(v.ContentDetails.Duration)
			video.IsShort = video.DurationSeconds > 0 && video.DurationSeconds <= shortMaxSeconds
		}
		videos = append(videos, video)
		c.cache[video.ID] = video
	}
	return videos, nil
}

// CachedVideo returns a previously fetched video by id.
func (c *Client) CachedVideo(id string) (domain.Video, bool) {
	v, ok := c.cache[id]
	return v, ok
}

// InvalidateCache drops all cached videos.
func (c *Client) InvalidateCache() {
	c.cache = make(map[string]domain.Video)
}

// wrapQuota converts a 403 quota response into ErrQuotaExceeded and wraps
// everything else with call context.
func wrapQuota(err error, format string, args ...interface{}) error {
	if isQuotaError(err) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrQuotaExceeded)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// isQuotaError reports whether err is the API's quota-exceeded signal: a 403
// with a machine-readable reason code in the response body.
func isQuotaError(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != 403 {
		return false
	}
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
			return true
		}
	}
	return false
}
