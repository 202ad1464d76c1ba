package domain

import "time"

// Creator represents a discovered channel profile under evaluation.
// Instances are immutable once constructed; stale data is replaced by a
// fresh fetch, never patched in place.
type Creator struct {
	ChannelID       string `bson:"channel_id" json:"channel_id"`
	Title           string `bson:"title" json:"title"`
	Handle          string `bson:"handle" json:"handle"`
	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	SubscriberCount int64  `bson:"subscriber_count" json:"subscriber_count"`
	VideoCount      int64  `bson:"video_count" json:"video_count"`
	ViewCount       int64  `bson:"view_count" json:"view_count"`

	// DiscoveredAt is when this profile was fetched and admitted.
	DiscoveredAt time.Time `bson:"discovered_at" json:"discovered_at"`
}

// Video is one content unit belonging to a Creator, with the statistics
// fetched alongside it. Cached by ID so multiple pipeline stages can reuse
// one fetch.
type Video struct {
	ID              string    `bson:"id" json:"id"`
	Title           string    `bson:"title" json:"title"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	ViewCount       int64     `bson:"view_count" json:"view_count"`
	CommentCount    int64     `bson:"comment_count" json:"comment_count"`
	DurationSeconds int       `bson:"duration_seconds" json:"duration_seconds"`
	IsShort         bool      `bson:"is_short" json:"is_short"`
	PublishedAt     time.Time `bson:"published_at" json:"published_at"`
}

// SearchHit is a channel reference extracted from a video search result,
// before any profile detail has been fetched for it.
type SearchHit struct {
	ChannelID    string
	ChannelTitle string
}

// DiscoveryRecord is the persisted output row for an accepted creator.
// Append-only: written exactly once per accepted creator.
type DiscoveryRecord struct {
	Name          string `bson:"name" json:"name"`
	Sex           string `bson:"sex" json:"sex"`
	Handle        string `bson:"handle" json:"handle"`
	Platform      string `bson:"platform" json:"platform"`
	FollowerCount string `bson:"follower_count" json:"follower_count"`
	Contact       string `bson:"contact" json:"contact"`
	Engagement    string `bson:"engagement" json:"engagement"`
	Niche         string `bson:"niche" json:"niche"`
	Notes         string `bson:"notes" json:"notes"`
	Status        string `bson:"status" json:"status"`
}
