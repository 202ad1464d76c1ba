package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const defaultFeedBaseURL = "https://www.youtube.com/feeds/videos.xml"

// FeedReader reads a channel's public uploads feed. The feed costs no API
// quota, so it serves as a free pre-check that a channel has recent uploads
// before a quota-bounded fetch is spent on it.
type FeedReader struct {
	parser  *gofeed.Parser
	baseURL string
}

// NewFeedReader creates a feed reader against the public feed endpoint.
func NewFeedReader() *FeedReader {
	return &FeedReader{
		parser:  gofeed.NewParser(),
		baseURL: defaultFeedBaseURL,
	}
}

// SetBaseURL overrides the feed endpoint (used by tests).
func (r *FeedReader) SetBaseURL(u string) {
	r.baseURL = u
}

// FeedUpload is one entry from a channel's uploads feed.
type FeedUpload struct {
	VideoID   string
	Title     string
	Published time.Time
}

// RecentUploads fetches and parses the channel's uploads feed.
func (r *FeedReader) RecentUploads(ctx context.Context, channelID string) ([]FeedUpload, error) {
	feedURL := fmt.Sprintf("%s?channel_id=%s", r.baseURL, channelID)
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse uploads feed: %w", err)
	}
	if feed == nil || len(feed.Items) == 0 {
		return nil, nil
	}

	uploads := make([]FeedUpload, 0, len(feed.Items))
	for _, item := range feed.Items {
		up := FeedUpload{
			// Feed entry GUIDs are of the form "yt:video:<id>".
			VideoID: strings.TrimPrefix(item.GUID, "yt:video:"),
			Title:   item.Title,
		}
		if item.PublishedParsed != nil {
			up.Published = *item.PublishedParsed
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}

// HasRecentUploads reports whether the channel published anything since the
// given time. A feed error counts as "unknown" and returns true so the quota
// path is never blocked by a feed outage.
func (r *FeedReader) HasRecentUploads(ctx context.Context, channelID string, since time.Time) bool {
	uploads, err := r.RecentUploads(ctx, channelID)
	if err != nil {
		return true
	}
	if len(uploads) == 0 {
		return false
	}
	if since.IsZero() {
		return true
	}
	for _, up := range uploads {
		if up.Published.After(since) {
			return true
		}
	}
	return false
}
