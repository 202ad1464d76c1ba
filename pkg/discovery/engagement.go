// Package discovery drives the end-to-end creator discovery run: keyword
// search, channel profiling, engagement gating, niche classification and
// persistence, spending as few API units as possible along the way.
package discovery

import (
	"fmt"

	"creator-scout/pkg/domain"
)

// engagementSampleVideos is how many of the freshest videos feed the
// engagement estimate. Matches the classification sample so both judgments
// describe the same content.
const engagementSampleVideos = 5

// Engagement summarizes audience interaction from already-fetched videos.
// It costs zero API calls; the videos were cached by the channel fetch.
func Engagement(videos []domain.Video) string {
	if len(videos) == 0 {
		return "No recent videos"
	}

	sample := videos
	if len(sample) > engagementSampleVideos {
		sample = sample[:engagementSampleVideos]
	}

	var totalViews, totalComments int64
	for _, v := range sample {
		totalViews += v.ViewCount
		totalComments += v.CommentCount
	}
	n := int64(len(sample))
	avgViews := totalViews / n
	avgComments := totalComments / n

	if avgViews > 0 {
		rate := float64(avgComments) / float64(avgViews) * 100
		return fmt.Sprintf("%d avg comments, %.2f%% engagement rate", avgComments, rate)
	}
	return fmt.Sprintf("%d avg comments per video", avgComments)
}

// MeetsViewThreshold reports whether at least minQualifying videos reach
// minViews views. Channels below the bar are dropped before any AI spend.
func MeetsViewThreshold(videos []domain.Video, minViews int64, minQualifying int) bool {
	qualifying := 0
	for _, v := range videos {
		if v.ViewCount >= minViews {
			qualifying++
		}
	}
	return qualifying >= minQualifying
}

// FollowerDisplay formats a subscriber count the way the results sheet
// expects, e.g. "45.2K YT".
func FollowerDisplay(subscribers int64) string {
	if subscribers >= 1000 {
		return fmt.Sprintf("%.1fK YT", float64(subscribers)/1000)
	}
	return fmt.Sprintf("%d YT", subscribers)
}
