package discovery

import (
	"testing"

	"creator-scout/pkg/domain"
)

func vid(views, comments int64) domain.Video {
	return domain.Video{ViewCount: views, CommentCount: comments}
}

func TestEngagement(t *testing.T) {
	cases := []struct {
		name   string
		videos []domain.Video
		want   string
	}{
		{
			name:   "no videos",
			videos: nil,
			want:   "No recent videos",
		},
		{
			name:   "averages over sample",
			videos: []domain.Video{vid(1000, 20), vid(3000, 40)},
			want:   "30 avg comments, 1.50% engagement rate",
		},
		{
			name: "only first five videos count",
			videos: []domain.Video{
				vid(1000, 10), vid(1000, 10), vid(1000, 10), vid(1000, 10), vid(1000, 10),
				vid(1000000, 99999),
			},
			want: "10 avg comments, 1.00% engagement rate",
		},
		{
			name:   "zero views",
			videos: []domain.Video{vid(0, 5)},
			want:   "5 avg comments per video",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Engagement(tc.videos); got != tc.want {
				t.Errorf("Engagement() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMeetsViewThreshold(t *testing.T) {
	videos := []domain.Video{
		vid(5000, 0), vid(2000, 0), vid(999, 0), vid(1000, 0), vid(300, 0),
	}
	if !MeetsViewThreshold(videos, 1000, 3) {
		t.Error("3 videos reach 1000 views, threshold of 3 should pass")
	}
	if MeetsViewThreshold(videos, 1000, 4) {
		t.Error("only 3 videos reach 1000 views, threshold of 4 should fail")
	}
	if MeetsViewThreshold(nil, 1000, 1) {
		t.Error("no videos can never meet a threshold")
	}
}

func TestFollowerDisplay(t *testing.T) {
	cases := []struct {
		subs int64
		want string
	}{
		{45200, "45.2K YT"},
		{10000, "10.0K YT"},
		{1000, "1.0K YT"},
		{999, "999 YT"},
		{0, "0 YT"},
	}
	for _, tc := range cases {
		if got := FollowerDisplay(tc.subs); got != tc.want {
			t.Errorf("FollowerDisplay(%d) = %q, want %q", tc.subs, got, tc.want)
		}
	}
}
