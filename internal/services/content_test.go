package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-blog/appserver/internal/store"
	"github.com/inkwell-blog/appserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contentFixture struct {
	content *ContentService
	auth    *AuthService
	db      *memDB
	events  *capturingEvents
}

func newContentFixture() *contentFixture {
	db := newMemDB()
	events := &capturingEvents{}
	content := NewContentService(&memPosts{db: db}, &memComments{db: db}, events)
	return &contentFixture{
		content: content,
		auth:    NewAuthService(&memUsers{db: db}, newMemSessions()),
		db:      db,
		events:  events,
	}
}

// admin registers the first account, which holds the admin role.
func (f *contentFixture) admin(t *testing.T) types.Identity {
	t.Helper()
	user, _, err := f.auth.Register(context.Background(), "admin@x.com", "pw", "Alice")
	require.NoError(t, err)
	require.True(t, user.IsAdmin())
	return types.Identity{User: &user}
}

func (f *contentFixture) user(t *testing.T, email, name string) types.Identity {
	t.Helper()
	user, _, err := f.auth.Register(context.Background(), email, "pw", name)
	require.NoError(t, err)
	require.False(t, user.IsAdmin())
	return types.Identity{User: &user}
}

func samplePostInput() PostInput {
	return PostInput{
		Title:    "First Light",
		Subtitle: "Notes from the road",
		Body:     "<p>It begins.</p>",
		ImgURL:   "https://img.example.com/first.jpg",
	}
}

func TestCreatePost_RoundTrip(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	ctx := context.Background()

	created, err := f.content.CreatePost(ctx, admin, samplePostInput())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, admin.UserID(), created.AuthorID)
	assert.Equal(t, "Alice", created.AuthorName)

	got, err := f.content.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Subtitle, got.Subtitle)
	assert.Equal(t, created.Body, got.Body)
	assert.Equal(t, created.ImgURL, got.ImgURL)
	assert.Equal(t, created.Date, got.Date)
}

func TestCreatePost_AssignsDateLabel(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	f.content.now = func() time.Time {
		return time.Date(2026, time.August, 3, 12, 0, 0, 0, time.UTC)
	}

	post, err := f.content.CreatePost(context.Background(), admin, samplePostInput())
	require.NoError(t, err)
	assert.Equal(t, "August 03, 2026", post.Date)
}

func TestCreatePost_AdminOnly(t *testing.T) {
	f := newContentFixture()
	f.admin(t)
	bob := f.user(t, "bob@x.com", "Bob")
	ctx := context.Background()

	_, err := f.content.CreatePost(ctx, bob, samplePostInput())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.content.CreatePost(ctx, types.Anonymous(), samplePostInput())
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Empty(t, f.db.posts)
}

func TestCreatePost_DuplicateTitle(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	ctx := context.Background()

	_, err := f.content.CreatePost(ctx, admin, samplePostInput())
	require.NoError(t, err)

	input := samplePostInput()
	input.Subtitle = "Different subtitle"
	_, err = f.content.CreatePost(ctx, admin, input)
	assert.ErrorIs(t, err, store.ErrDuplicateTitle)
}

func TestCreatePost_Validation(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	ctx := context.Background()

	overlong := strings.Repeat("x", maxTitleLen+1)

	cases := []struct {
		name   string
		mutate func(*PostInput)
	}{
		{"missing title", func(in *PostInput) { in.Title = "" }},
		{"overlong title", func(in *PostInput) { in.Title = overlong }},
		{"missing subtitle", func(in *PostInput) { in.Subtitle = "  " }},
		{"overlong subtitle", func(in *PostInput) { in.Subtitle = overlong }},
		{"missing body", func(in *PostInput) { in.Body = "" }},
		{"missing image", func(in *PostInput) { in.ImgURL = "" }},
		{"overlong image", func(in *PostInput) { in.ImgURL = strings.Repeat("u", maxImgURLLen+1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := samplePostInput()
			tc.mutate(&input)
			_, err := f.content.CreatePost(ctx, admin, input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

// Field limits count characters, not bytes: a 250-rune multibyte title
// is exactly at the limit even though it is 500 bytes long.
func TestCreatePost_LimitsCountCharacters(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	ctx := context.Background()

	input := samplePostInput()
	input.Title = strings.Repeat("π", maxTitleLen)
	input.Subtitle = strings.Repeat("ü", maxTitleLen)

	post, err := f.content.CreatePost(ctx, admin, input)
	require.NoError(t, err)
	assert.Equal(t, input.Title, post.Title)

	input.Title = strings.Repeat("π", maxTitleLen+1)
	_, err = f.content.CreatePost(ctx, admin, input)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdatePost_PreservesAuthorAndDate(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	ctx := context.Background()
	f.content.now = func() time.Time {
		return time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	}

	created, err := f.content.CreatePost(ctx, admin, samplePostInput())
	require.NoError(t, err)

	f.content.now = func() time.Time {
		return time.Date(2026, time.July, 1, 9, 0, 0, 0, time.UTC)
	}

	updated, err := f.content.UpdatePost(ctx, admin, created.ID, PostInput{
		Title:    "Second Light",
		Subtitle: "Revised notes",
		Body:     "<p>It continues.</p>",
		ImgURL:   "https://img.example.com/second.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Second Light", updated.Title)
	assert.Equal(t, created.AuthorID, updated.AuthorID)
	assert.Equal(t, "March 14, 2026", updated.Date)
}

func TestUpdatePost_AdminOnly(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	bob := f.user(t, "bob@x.com", "Bob")
	ctx := context.Background()

	created, err := f.content.CreatePost(ctx, admin, samplePostInput())
	require.NoError(t, err)

	input := samplePostInput()
	input.Title = "Hijacked"

	_, err = f.content.UpdatePost(ctx, bob, created.ID, input)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.content.UpdatePost(ctx, types.Anonymous(), created.ID, input)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.content.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "First Light", got.Title)
}

func TestUpdatePost_NotFound(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)

	_, err := f.content.UpdatePost(context.Background(), admin, 42, samplePostInput())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeletePost_AdminOnly(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	bob := f.user(t, "bob@x.com", "Bob")
	ctx := context.Background()

	created, err := f.content.CreatePost(ctx, admin, samplePostInput())
	require.NoError(t, err)

	assert.ErrorIs(t, f.content.DeletePost(ctx, bob, created.ID), ErrForbidden)
	assert.ErrorIs(t, f.content.DeletePost(ctx, types.Anonymous(), created.ID), ErrForbidden)

	_, err = f.content.GetPost(ctx, created.ID)
	require.NoError(t, err)
}

func TestDeletePost_RemovesComments(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	bob := f.user(t, "bob@x.com", "Bob")
	ctx := context.Background()

	created, err := f.content.CreatePost(ctx, admin, samplePostInput())
	require.NoError(t, err)

	_, err = f.content.AddComment(ctx, bob, created.ID, "great read")
	require.NoError(t, err)
	_, err = f.content.AddComment(ctx, admin, created.ID, "thanks")
	require.NoError(t, err)

	require.NoError(t, f.content.DeletePost(ctx, admin, created.ID))

	_, err = f.content.GetPost(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, f.db.comments)
}

func TestAddComment_AnonymousForbidden(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	ctx := context.Background()

	created, err := f.content.CreatePost(ctx, admin, samplePostInput())
	require.NoError(t, err)

	_, err = f.content.AddComment(ctx, types.Anonymous(), created.ID, "drive-by")
	assert.ErrorIs(t, err, ErrForbidden)

	comments, err := f.content.ListComments(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestAddComment_CreationOrder(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	bob := f.user(t, "bob@x.com", "Bob")
	ctx := context.Background()

	created, err := f.content.CreatePost(ctx, admin, samplePostInput())
	require.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		_, err := f.content.AddComment(ctx, bob, created.ID, text)
		require.NoError(t, err)
	}

	comments, err := f.content.ListComments(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "third", comments[2].Text)
}

func TestAddComment_MissingPost(t *testing.T) {
	f := newContentFixture()
	f.admin(t)
	bob := f.user(t, "bob@x.com", "Bob")

	_, err := f.content.AddComment(context.Background(), bob, 99, "lost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddComment_EmptyText(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	ctx := context.Background()

	created, err := f.content.CreatePost(ctx, admin, samplePostInput())
	require.NoError(t, err)

	_, err = f.content.AddComment(ctx, admin, created.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEventsPublishedOnWrites(t *testing.T) {
	f := newContentFixture()
	admin := f.admin(t)
	ctx := context.Background()

	created, err := f.content.CreatePost(ctx, admin, samplePostInput())
	require.NoError(t, err)

	_, err = f.content.AddComment(ctx, admin, created.ID, "hello")
	require.NoError(t, err)

	require.Len(t, f.events.posts, 1)
	assert.Equal(t, created.ID, f.events.posts[0].ID)
	require.Len(t, f.events.comments, 1)
	assert.Equal(t, created.ID, f.events.comments[0].PostID)
}

// TestAccountLifecycle walks the whole flow: the first registered account
// is the admin, a duplicate registration fails, and the second account
// can comment but cannot author posts.
func TestAccountLifecycle(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	alice, _, err := f.auth.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)
	require.True(t, alice.IsAdmin())

	_, _, err = f.auth.Register(ctx, "a@x.com", "pw2", "Alicia")
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	bob, _, err := f.auth.Register(ctx, "b@x.com", "pw3", "Bob")
	require.NoError(t, err)
	require.False(t, bob.IsAdmin())

	aliceID := types.Identity{User: &alice}
	bobID := types.Identity{User: &bob}

	post, err := f.content.CreatePost(ctx, aliceID, samplePostInput())
	require.NoError(t, err)

	_, err = f.content.CreatePost(ctx, bobID, PostInput{
		Title:    "Bob Speaks",
		Subtitle: "Unsanctioned",
		Body:     "<p>no</p>",
		ImgURL:   "https://img.example.com/bob.jpg",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	comment, err := f.content.AddComment(ctx, bobID, post.ID, "nice post")
	require.NoError(t, err)
	assert.Equal(t, "Bob", comment.AuthorName)
}
