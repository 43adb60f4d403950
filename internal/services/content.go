package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inkwell-blog/appserver/types"
)

// Field limits match the column widths. Counted in characters, not bytes.
const (
	maxTitleLen  = 250
	maxImgURLLen = 500
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	List(ctx context.Context) ([]types.Post, error)
	Get(ctx context.Context, id int) (types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	Update(ctx context.Context, post types.Post) (types.Post, error)
	Delete(ctx context.Context, id int) error
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
	ListByPost(ctx context.Context, postID int) ([]types.Comment, error)
}

// EventPublisher announces content changes to interested consumers.
// Publishing is best effort; a failed publish never fails the operation.
type EventPublisher interface {
	PostPublished(ctx context.Context, post types.Post)
	CommentAdded(ctx context.Context, comment types.Comment)
}

// PostInput carries the author-editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

// ContentService implements post and comment use-cases. Every mutating
// operation takes the caller identity and enforces authorization before
// touching the store: post mutations are admin-only, commenting requires
// any authenticated user.
type ContentService struct {
	posts    PostRepository
	comments CommentRepository
	events   EventPublisher
	now      func() time.Time
}

func NewContentService(posts PostRepository, comments CommentRepository, events EventPublisher) *ContentService {
	return &ContentService{
		posts:    posts,
		comments: comments,
		events:   events,
		now:      time.Now,
	}
}

func (s *ContentService) ListPosts(ctx context.Context) ([]types.Post, error) {
	return s.posts.List(ctx)
}

func (s *ContentService) GetPost(ctx context.Context, id int) (types.Post, error) {
	return s.posts.Get(ctx, id)
}

// CreatePost publishes a new post authored by the caller. The date label
// is assigned here and never recomputed afterwards.
func (s *ContentService) CreatePost(ctx context.Context, caller types.Identity, input PostInput) (types.Post, error) {
	if !caller.IsAdmin() {
		return types.Post{}, ErrForbidden
	}
	if err := validatePostInput(input); err != nil {
		return types.Post{}, err
	}

	post, err := s.posts.Create(ctx, types.Post{
		AuthorID: caller.UserID(),
		Title:    strings.TrimSpace(input.Title),
		Subtitle: strings.TrimSpace(input.Subtitle),
		Date:     s.now().Format(types.PostDateLayout),
		Body:     input.Body,
		ImgURL:   strings.TrimSpace(input.ImgURL),
	})
	if err != nil {
		return types.Post{}, err
	}
	post.AuthorName = caller.User.Name

	if s.events != nil {
		s.events.PostPublished(ctx, post)
	}
	return post, nil
}

// UpdatePost edits an existing post. The original author and the date
// label are preserved.
func (s *ContentService) UpdatePost(ctx context.Context, caller types.Identity, id int, input PostInput) (types.Post, error) {
	if !caller.IsAdmin() {
		return types.Post{}, ErrForbidden
	}
	if err := validatePostInput(input); err != nil {
		return types.Post{}, err
	}

	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return types.Post{}, err
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Subtitle = strings.TrimSpace(input.Subtitle)
	post.Body = input.Body
	post.ImgURL = strings.TrimSpace(input.ImgURL)

	return s.posts.Update(ctx, post)
}

// DeletePost removes a post and, through the store's cascade, all of its
// comments.
func (s *ContentService) DeletePost(ctx context.Context, caller types.Identity, id int) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return s.posts.Delete(ctx, id)
}

// AddComment attaches a comment to a post on behalf of an authenticated
// caller.
func (s *ContentService) AddComment(ctx context.Context, caller types.Identity, postID int, text string) (types.Comment, error) {
	if caller.IsAnonymous() {
		return types.Comment{}, ErrForbidden
	}
	if strings.TrimSpace(text) == "" {
		return types.Comment{}, fmt.Errorf("%w: comment text is required", ErrValidation)
	}

	comment, err := s.comments.Create(ctx, types.Comment{
		Text:     text,
		AuthorID: caller.UserID(),
		PostID:   postID,
	})
	if err != nil {
		return types.Comment{}, err
	}
	comment.AuthorName = caller.User.Name

	if s.events != nil {
		s.events.CommentAdded(ctx, comment)
	}
	return comment, nil
}

// ListComments returns a post's comments in creation order.
func (s *ContentService) ListComments(ctx context.Context, postID int) ([]types.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

func validatePostInput(input PostInput) error {
	title := strings.TrimSpace(input.Title)
	switch {
	case title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case utf8.RuneCountInString(title) > maxTitleLen:
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, maxTitleLen)
	}

	subtitle := strings.TrimSpace(input.Subtitle)
	switch {
	case subtitle == "":
		return fmt.Errorf("%w: subtitle is required", ErrValidation)
	case utf8.RuneCountInString(subtitle) > maxTitleLen:
		return fmt.Errorf("%w: subtitle exceeds %d characters", ErrValidation, maxTitleLen)
	}

	if strings.TrimSpace(input.Body) == "" {
		return fmt.Errorf("%w: body is required", ErrValidation)
	}

	imgURL := strings.TrimSpace(input.ImgURL)
	switch {
	case imgURL == "":
		return fmt.Errorf("%w: image URL is required", ErrValidation)
	case utf8.RuneCountInString(imgURL) > maxImgURLLen:
		return fmt.Errorf("%w: image URL exceeds %d characters", ErrValidation, maxImgURLLen)
	}
	return nil
}
