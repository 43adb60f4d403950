package types

import "time"

// PostDateLayout is the display format of a post's publication date,
// e.g. "June 01, 2024". The date is assigned once at creation and is
// not recomputed when the post is edited.
const PostDateLayout = "January 02, 2006"

// Post represents a published blog post.
type Post struct {
	// ID is the unique identifier of the post.
	ID int `json:"id" db:"id"`

	// AuthorID references the user who wrote the post. The author is
	// fixed at creation; editing a post does not reassign it.
	AuthorID int `json:"author_id" db:"author_id"`

	// AuthorName is the display name of the author, joined in on reads.
	AuthorName string `json:"author_name" db:"author_name"`

	// Title is the post headline. Globally unique, at most 250 characters.
	Title string `json:"title" db:"title"`

	// Subtitle is the secondary headline, at most 250 characters.
	Subtitle string `json:"subtitle" db:"subtitle"`

	// Date is the human-readable publication date label, formatted with
	// PostDateLayout when the post is created.
	Date string `json:"date" db:"date"`

	// Body is the rich-text content of the post.
	Body string `json:"body" db:"body"`

	// ImgURL locates the post's header image. Either an external URL or
	// a path served from the configured image store.
	ImgURL string `json:"img_url" db:"img_url"`

	// CreatedAt is the timestamp at which the post was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent edit.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
