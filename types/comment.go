package types

import "time"

// Comment is a reader comment attached to a post. Comments are written by
// authenticated users, are never edited, and are removed together with
// their parent post.
type Comment struct {
	ID int `json:"id" db:"id"`

	// Text is the comment content.
	Text string `json:"text" db:"text"`

	// AuthorID references the commenting user.
	AuthorID int `json:"author_id" db:"author_id"`

	// AuthorName is the commenting user's display name, joined in on reads.
	AuthorName string `json:"author_name" db:"author_name"`

	// PostID references the parent post.
	PostID int `json:"post_id" db:"post_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
