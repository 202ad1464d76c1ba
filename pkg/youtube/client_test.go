package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
)

// fakeAPI serves canned YouTube Data API responses and counts requests per
// endpoint.
type fakeAPI struct {
	searchCalls   int
	videosCalls   int
	channelsCalls int

	quotaExceeded bool
	subscribers   string
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.quotaExceeded {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"code":403,"message":"quota exceeded","errors":[{"reason":"quotaExceeded","domain":"youtube.quota"}]}}`)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "/search"):
			f.searchCalls++
			fmt.Fprint(w, `{"items":[
				{"id":{"videoId":"vid-1"},"snippet":{"channelId":"UCaaa","channelTitle":"Alpha"}},
				{"id":{"videoId":"vid-2"},"snippet":{"channelId":"UCaaa","channelTitle":"Alpha"}},
				{"id":{"videoId":"vid-3"},"snippet":{"channelId":"UCbbb","channelTitle":"Beta"}}
			]}`)
		case strings.Contains(r.URL.Path, "/videos"):
			f.videosCalls++
			fmt.Fprint(w, `{"items":[
				{"id":"vid-1","snippet":{"title":"First","description":"d1","publishedAt":"2025-06-01T00:00:00Z"},
				 "statistics":{"viewCount":"12000","commentCount":"40"},
				 "contentDetails":{"duration":"PT8M20S"}},
				{"id":"vid-2","snippet":{"title":"Second","description":"d2","publishedAt":"2025-06-02T00:00:00Z"},
				 "statistics":{"viewCount":"500","commentCount":"3"},
				 "contentDetails":{"duration":"PT45S"}}
			]}`)
		case strings.Contains(r.URL.Path, "/channels"):
			f.channelsCalls++
			subs := f.subscribers
			if subs == "" {
				subs = "50000"
			}
			fmt.Fprintf(w, `{"items":[
				{"id":"UCaaa",
				 "snippet":{"title":"Alpha","customUrl":"@alphachannel","description":"about"},
				 "statistics":{"subscriberCount":"%s","videoCount":"120","viewCount":"900000"}}
			]}`, subs)
		default:
			http.NotFound(w, r)
		}
	})
}

func newTestClient(t *testing.T, fake *fakeAPI, minSubs, maxSubs int64) *Client {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), "test-key", minSubs, maxSubs,
		option.WithEndpoint(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestFetchChannelVideos_ExactlyTwoCalls(t *testing.T) {
	for _, count := range []int64{1, 5, 15, 50} {
		fake := &fakeAPI{}
		client := newTestClient(t, fake, 0, 1<<40)

		videos, err := client.FetchChannelVideos(context.Background(), "UCaaa", count)
		if err != nil {
			t.Fatalf("count=%d: FetchChannelVideos failed: %v", count, err)
		}
		if len(videos) != 2 {
			t.Fatalf("count=%d: got %d videos, want 2", count, len(videos))
		}

		total := fake.searchCalls + fake.videosCalls + fake.channelsCalls
		if fake.searchCalls != 1 || fake.videosCalls != 1 || total != 2 {
			t.Errorf("count=%d: calls = search:%d videos:%d total:%d, want exactly 1+1",
				count, fake.searchCalls, fake.videosCalls, total)
		}
	}
}

func TestFetchChannelVideos_PopulatesCacheAndFlags(t *testing.T) {
	client := newTestClient(t, &fakeAPI{}, 0, 1<<40)

	videos, err := client.FetchChannelVideos(context.Background(), "UCaaa", 10)
	if err != nil {
		t.Fatalf("FetchChannelVideos failed: %v", err)
	}

	if videos[0].DurationSeconds != 500 || videos[0].IsShort {
		t.Errorf("vid-1: duration=%d short=%v, want 500/false", videos[0].DurationSeconds, videos[0].IsShort)
	}
	if videos[1].DurationSeconds != 45 || !videos[1].IsShort {
		t.Errorf("vid-2: duration=%d short=%v, want 45/true", videos[1].DurationSeconds, videos[1].IsShort)
	}

	cached, ok := client.CachedVideo("vid-1")
	if !ok || cached.ViewCount != 12000 || cached.CommentCount != 40 {
		t.Errorf("cache miss or wrong stats: %+v ok=%v", cached, ok)
	}

	client.InvalidateCache()
	if _, ok := client.CachedVideo("vid-1"); ok {
		t.Error("cache should be empty after InvalidateCache")
	}
}

func TestFetchChannelVideos_QuotaExceeded(t *testing.T) {
	client := newTestClient(t, &fakeAPI{quotaExceeded: true}, 0, 1<<40)

	videos, err := client.FetchChannelVideos(context.Background(), "UCaaa", 10)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("got err=%v, want ErrQuotaExceeded", err)
	}
	if videos != nil {
		t.Errorf("expected no partial result on quota error, got %d videos", len(videos))
	}
}

func TestFetchChannelProfile_SubscriberRange(t *testing.T) {
	// 5,000 subscribers with an admission range of [10000, 100000] is a
	// filtering outcome: nil creator, nil error.
	client := newTestClient(t, &fakeAPI{subscribers: "5000"}, 10000, 100000)

	creator, err := client.FetchChannelProfile(context.Background(), "UCaaa")
	if err != nil {
		t.Fatalf("FetchChannelProfile failed: %v", err)
	}
	if creator != nil {
		t.Fatalf("expected nil creator for out-of-range subscribers, got %+v", creator)
	}
}

func TestFetchChannelProfile_InRange(t *testing.T) {
	client := newTestClient(t, &fakeAPI{subscribers: "50000"}, 10000, 100000)

	creator, err := client.FetchChannelProfile(context.Background(), "UCaaa")
	if err != nil {
		t.Fatalf("FetchChannelProfile failed: %v", err)
	}
	if creator == nil {
		t.Fatal("expected creator, got nil")
	}
	if creator.Handle != "@alphachannel" {
		t.Errorf("Handle = %q, want @alphachannel", creator.Handle)
	}
	if creator.SubscriberCount != 50000 {
		t.Errorf("SubscriberCount = %d, want 50000", creator.SubscriberCount)
	}
}

func TestSearchChannels_DeduplicatesChannels(t *testing.T) {
	fake := &fakeAPI{}
	client := newTestClient(t, fake, 0, 1<<40)

	hits, err := client.SearchChannels(context.Background(), "how to be more confident", 50)
	if err != nil {
		t.Fatalf("SearchChannels failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2 distinct channels", len(hits))
	}
	if hits[0].ChannelID != "UCaaa" || hits[1].ChannelID != "UCbbb" {
		t.Errorf("unexpected hits: %+v", hits)
	}
	if fake.searchCalls != 1 {
		t.Errorf("search calls = %d, want 1", fake.searchCalls)
	}
}

func TestClient_OnCallCounter(t *testing.T) {
	client := newTestClient(t, &fakeAPI{}, 0, 1<<40)

	calls := 0
	client.SetOnCall(func() { calls++ })

	if _, err := client.FetchChannelVideos(context.Background(), "UCaaa", 10); err != nil {
		t.Fatalf("FetchChannelVideos failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("onCall fired %d times, want 2", calls)
	}
}
