package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"inkwell/app/models"
	"inkwell/app/repositories"

	"github.com/google/uuid"
)

// Store is an in-memory stand-in for the relational store and the session
// store. All repositories share one dataset so cascades behave like the
// real database.
type Store struct {
	Posts    *PostRepository
	Comments *CommentRepository
	Users    *UserRepository
	Saves    *SaveRepository
	Sessions *SessionStore
}

type data struct {
	mutex    sync.RWMutex
	posts    map[int]models.Post
	comments map[int]models.Comment
	users    map[int]models.User
	saves    map[int]models.Save
	sessions map[string]repositories.Session
	nextID   map[string]int
}

type PostRepository struct{ d *data }
type CommentRepository struct{ d *data }
type UserRepository struct{ d *data }
type SaveRepository struct{ d *data }
type SessionStore struct {
	d        *data
	Lifetime time.Duration
}

func NewStore() *Store {
	d := &data{}
	d.reset()
	return &Store{
		Posts:    &PostRepository{d: d},
		Comments: &CommentRepository{d: d},
		Users:    &UserRepository{d: d},
		Saves:    &SaveRepository{d: d},
		Sessions: &SessionStore{d: d, Lifetime: time.Hour},
	}
}

// Clear drops every record and resets the id sequences.
func (s *Store) Clear() {
	s.Posts.d.mutex.Lock()
	defer s.Posts.d.mutex.Unlock()
	s.Posts.d.reset()
}

func (d *data) reset() {
	d.posts = make(map[int]models.Post)
	d.comments = make(map[int]models.Comment)
	d.users = make(map[int]models.User)
	d.saves = make(map[int]models.Save)
	d.sessions = make(map[string]repositories.Session)
	d.nextID = make(map[string]int)
}

func (d *data) next(kind string) int {
	d.nextID[kind]++
	return d.nextID[kind]
}

func (d *data) author(id int) *models.User {
	u, ok := d.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (d *data) postCopy(p models.Post) *models.Post {
	p.Author = d.author(p.AuthorID)
	p.Comments = nil
	p.Saves = nil
	return &p
}

func (d *data) commentCopy(c models.Comment) *models.Comment {
	c.Author = d.author(c.AuthorID)
	return &c
}

// sortedPosts returns matching posts ordered by id descending.
func (d *data) sortedPosts(match func(models.Post) bool) []*models.Post {
	var posts []*models.Post
	for _, p := range d.posts {
		if match(p) {
			posts = append(posts, d.postCopy(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts
}

func paginate(posts []*models.Post, limit, offset int) []*models.Post {
	if offset >= len(posts) {
		return []*models.Post{}
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}

func titleMatches(keyword string) func(models.Post) bool {
	kw := strings.ToLower(keyword)
	return func(p models.Post) bool {
		return strings.Contains(strings.ToLower(p.Title), kw)
	}
}

func all(models.Post) bool { return true }

// PostRepository implementation

func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	for _, p := range m.d.posts {
		if p.Title == post.Title {
			return repositories.ErrDuplicate
		}
	}
	if err := post.BeforeCreate(nil); err != nil {
		return err
	}
	post.ID = m.d.next("post")
	m.d.posts[post.ID] = *post
	return nil
}

func (m *PostRepository) GetByID(_ context.Context, id int) (*models.Post, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	post, exists := m.d.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.d.postCopy(post), nil
}

func (m *PostRepository) List(_ context.Context, limit, offset int) ([]*models.Post, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()
	return paginate(m.d.sortedPosts(all), limit, offset), nil
}

func (m *PostRepository) Count(context.Context) (int64, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()
	return int64(len(m.d.posts)), nil
}

func (m *PostRepository) Search(_ context.Context, keyword string, limit, offset int) ([]*models.Post, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()
	return paginate(m.d.sortedPosts(titleMatches(keyword)), limit, offset), nil
}

func (m *PostRepository) CountSearch(_ context.Context, keyword string) (int64, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()
	return int64(len(m.d.sortedPosts(titleMatches(keyword)))), nil
}

func (m *PostRepository) Popular(_ context.Context, limit int) ([]*models.Post, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	posts := m.d.sortedPosts(all)
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Views != posts[j].Views {
			return posts[i].Views > posts[j].Views
		}
		return posts[i].ID < posts[j].ID
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *PostRepository) All(context.Context) ([]*models.Post, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	posts := m.d.sortedPosts(all)
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (m *PostRepository) Update(_ context.Context, post *models.Post) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	existing, exists := m.d.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	for id, p := range m.d.posts {
		if id != post.ID && p.Title == post.Title {
			return repositories.ErrDuplicate
		}
	}
	existing.Title = post.Title
	existing.Subtitle = post.Subtitle
	existing.Body = post.Body
	existing.Image = post.Image
	m.d.posts[post.ID] = existing
	return nil
}

func (m *PostRepository) IncrementViews(_ context.Context, id int) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	post, exists := m.d.posts[id]
	if !exists {
		return repositories.ErrNotFound
	}
	post.Views++
	m.d.posts[id] = post
	return nil
}

func (m *PostRepository) Delete(_ context.Context, id int) (repositories.CascadeResult, error) {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	var result repositories.CascadeResult
	if _, exists := m.d.posts[id]; !exists {
		return result, repositories.ErrNotFound
	}
	for cid, c := range m.d.comments {
		if c.PostID == id {
			delete(m.d.comments, cid)
			result.Comments++
		}
	}
	for sid, s := range m.d.saves {
		if s.PostID == id {
			delete(m.d.saves, sid)
			result.Saves++
		}
	}
	delete(m.d.posts, id)
	return result, nil
}

// CommentRepository implementation

func (m *CommentRepository) Create(_ context.Context, comment *models.Comment) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	if _, exists := m.d.posts[comment.PostID]; !exists {
		return repositories.ErrNotFound
	}
	if err := comment.BeforeCreate(nil); err != nil {
		return err
	}
	comment.ID = m.d.next("comment")
	stored := *comment
	stored.Author = nil
	m.d.comments[comment.ID] = stored
	return nil
}

func (m *CommentRepository) GetByID(_ context.Context, id int) (*models.Comment, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	comment, exists := m.d.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.d.commentCopy(comment), nil
}

func (m *CommentRepository) ListByPost(_ context.Context, postID int) ([]*models.Comment, error) {
	return m.list(func(c models.Comment) bool { return c.PostID == postID }), nil
}

func (m *CommentRepository) All(context.Context) ([]*models.Comment, error) {
	return m.list(func(models.Comment) bool { return true }), nil
}

func (m *CommentRepository) list(match func(models.Comment) bool) []*models.Comment {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	var comments []*models.Comment
	for _, c := range m.d.comments {
		if match(c) {
			comments = append(comments, m.d.commentCopy(c))
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments
}

func (m *CommentRepository) Update(_ context.Context, comment *models.Comment) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	existing, exists := m.d.comments[comment.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	existing.Text = comment.Text
	m.d.comments[comment.ID] = existing
	return nil
}

func (m *CommentRepository) Delete(_ context.Context, id int) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	if _, exists := m.d.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.d.comments, id)
	return nil
}

// UserRepository implementation

func (m *UserRepository) Create(_ context.Context, user *models.User) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	user.Email = models.NormalizeEmail(user.Email)
	for _, u := range m.d.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = m.d.next("user")
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.d.users[user.ID] = *user
	return nil
}

func (m *UserRepository) GetByID(_ context.Context, id int) (*models.User, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	user, exists := m.d.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (m *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	email = models.NormalizeEmail(email)
	for _, u := range m.d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) List(context.Context) ([]*models.User, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	var users []*models.User
	for _, u := range m.d.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *UserRepository) Update(_ context.Context, user *models.User) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	existing, exists := m.d.users[user.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	existing.Name = user.Name
	existing.ProfileImage = user.ProfileImage
	m.d.users[user.ID] = existing
	return nil
}

func (m *UserRepository) SetRole(_ context.Context, email, role string) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	email = models.NormalizeEmail(email)
	for id, u := range m.d.users {
		if u.Email == email {
			u.Role = role
			m.d.users[id] = u
			return nil
		}
	}
	return repositories.ErrNotFound
}

// SaveRepository implementation

func (m *SaveRepository) find(userID, postID int) (int, bool) {
	for id, s := range m.d.saves {
		if s.UserID == userID && s.PostID == postID {
			return id, true
		}
	}
	return 0, false
}

func (m *SaveRepository) Create(_ context.Context, userID, postID int) (bool, error) {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	if _, exists := m.d.posts[postID]; !exists {
		return false, repositories.ErrNotFound
	}
	if _, exists := m.find(userID, postID); exists {
		return false, nil
	}
	id := m.d.next("save")
	m.d.saves[id] = models.Save{ID: id, UserID: userID, PostID: postID, CreatedAt: time.Now()}
	return true, nil
}

func (m *SaveRepository) Delete(_ context.Context, userID, postID int) (bool, error) {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	id, exists := m.find(userID, postID)
	if !exists {
		return false, nil
	}
	delete(m.d.saves, id)
	return true, nil
}

func (m *SaveRepository) Exists(_ context.Context, userID, postID int) (bool, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	_, exists := m.find(userID, postID)
	return exists, nil
}

func (m *SaveRepository) CountByPost(_ context.Context, postID int) (int64, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	var n int64
	for _, s := range m.d.saves {
		if s.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (m *SaveRepository) ListPostsByUser(_ context.Context, userID int) ([]*models.Post, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	var saves []models.Save
	for _, s := range m.d.saves {
		if s.UserID == userID {
			saves = append(saves, s)
		}
	}
	sort.Slice(saves, func(i, j int) bool { return saves[i].ID > saves[j].ID })

	posts := make([]*models.Post, 0, len(saves))
	for _, s := range saves {
		if p, ok := m.d.posts[s.PostID]; ok {
			posts = append(posts, m.d.postCopy(p))
		}
	}
	return posts, nil
}

// SessionStore implementation

func (m *SessionStore) Create(userID int) (*repositories.Session, error) {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	session := repositories.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.Lifetime),
	}
	m.d.sessions[session.ID] = session
	return &session, nil
}

func (m *SessionStore) Get(id string) (*repositories.Session, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	session, exists := m.d.sessions[id]
	if !exists || time.Now().After(session.ExpiresAt) {
		return nil, repositories.ErrNotFound
	}
	return &session, nil
}

func (m *SessionStore) Delete(id string) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	delete(m.d.sessions, id)
	return nil
}
