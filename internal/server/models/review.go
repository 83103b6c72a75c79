package models

import "time"

// Review is a user-authored album review. Username is the owning account,
// set once at creation; only the owner may update or delete the review.
type Review struct {
	ID      string
	AlbumID string
	// UserID is the owning account's id; Username is resolved from it on
	// reads and is what ownership checks compare against.
	UserID   string
	Username string
	Title    string
	Content  string
	Score    int
	Likes    int64
	// PublishedAt is stamped with the server clock at creation.
	PublishedAt time.Time

	// Album holds external metadata and is populated only on detailed
	// listings; it is never persisted.
	Album *Album `json:",omitempty"`
}

// Album is descriptive metadata fetched from the external catalogue.
type Album struct {
	ID          string
	Name        string
	Artist      string
	ReleaseDate string
	CoverURL    string
	TotalTracks int
}
