package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/inkwell-blog/appserver/internal/store"
	"github.com/inkwell-blog/appserver/types"
)

// memDB backs the in-memory repository fakes used across the service
// tests. It mirrors the store's contract: unique email/title, not-found
// signals, and cascade delete from post to comments.
type memDB struct {
	mu          sync.Mutex
	users       map[int]types.User
	posts       map[int]types.Post
	comments    map[int]types.Comment
	nextUser    int
	nextPost    int
	nextComment int
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[int]types.User),
		posts:    make(map[int]types.Post),
		comments: make(map[int]types.Comment),
	}
}

type memUsers struct{ db *memDB }

func (m *memUsers) Create(_ context.Context, user types.User) (types.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, existing := range m.db.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	user.Role = types.RoleUser
	if len(m.db.users) == 0 {
		user.Role = types.RoleAdmin
	}
	m.db.nextUser++
	user.ID = m.db.nextUser
	m.db.users[user.ID] = user
	return user, nil
}

func (m *memUsers) GetByID(_ context.Context, id int) (types.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	user, ok := m.db.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (types.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, user := range m.db.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

type memPosts struct{ db *memDB }

func (m *memPosts) List(_ context.Context) ([]types.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	posts := make([]types.Post, 0, len(m.db.posts))
	for _, post := range m.db.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (m *memPosts) Get(_ context.Context, id int) (types.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	post, ok := m.db.posts[id]
	if !ok {
		return types.Post{}, store.ErrNotFound
	}
	return post, nil
}

func (m *memPosts) Create(_ context.Context, post types.Post) (types.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, existing := range m.db.posts {
		if existing.Title == post.Title {
			return types.Post{}, store.ErrDuplicateTitle
		}
	}
	m.db.nextPost++
	post.ID = m.db.nextPost
	m.db.posts[post.ID] = post
	return post, nil
}

func (m *memPosts) Update(_ context.Context, post types.Post) (types.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.posts[post.ID]; !ok {
		return types.Post{}, store.ErrNotFound
	}
	for _, existing := range m.db.posts {
		if existing.ID != post.ID && existing.Title == post.Title {
			return types.Post{}, store.ErrDuplicateTitle
		}
	}
	m.db.posts[post.ID] = post
	return post, nil
}

func (m *memPosts) Delete(_ context.Context, id int) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.db.posts, id)
	for commentID, comment := range m.db.comments {
		if comment.PostID == id {
			delete(m.db.comments, commentID)
		}
	}
	return nil
}

type memComments struct{ db *memDB }

func (m *memComments) Create(_ context.Context, comment types.Comment) (types.Comment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.posts[comment.PostID]; !ok {
		return types.Comment{}, store.ErrNotFound
	}
	m.db.nextComment++
	comment.ID = m.db.nextComment
	m.db.comments[comment.ID] = comment
	return comment, nil
}

func (m *memComments) ListByPost(_ context.Context, postID int) ([]types.Comment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	comments := make([]types.Comment, 0)
	for _, comment := range m.db.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

// memSessions is an in-memory sessions.Store.
type memSessions struct {
	mu     sync.Mutex
	tokens map[string]int
	next   int
}

func newMemSessions() *memSessions {
	return &memSessions{tokens: make(map[string]int)}
}

func (m *memSessions) Create(_ context.Context, userID int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	token := fmt.Sprintf("tok-%d", m.next)
	m.tokens[token] = userID
	return token, nil
}

func (m *memSessions) Get(_ context.Context, token string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[token], nil
}

func (m *memSessions) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

// capturingEvents records published events.
type capturingEvents struct {
	mu       sync.Mutex
	posts    []types.Post
	comments []types.Comment
}

func (c *capturingEvents) PostPublished(_ context.Context, post types.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts = append(c.posts, post)
}

func (c *capturingEvents) CommentAdded(_ context.Context, comment types.Comment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments = append(c.comments, comment)
}
