package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wensaqt/twitter-clone/models"
	"github.com/wensaqt/twitter-clone/storage"
)

// Store реализует интерфейс Storage в памяти. Используется в тестах
// и для локального запуска без базы данных.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*models.User
	posts         map[string]*models.Post
	comments      map[string]*models.Comment
	notifications map[string]*models.Notification
	likes         map[string]time.Time // ключ postID+"/"+userID
	saves         map[string]time.Time // ключ userID+"/"+postID
	commentLikes  map[string]time.Time // ключ commentID+"/"+userID
	follows       map[string]time.Time // ключ followerID+"/"+followingID
}

// New создает новый экземпляр in-memory хранилища.
func New() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		posts:         make(map[string]*models.Post),
		comments:      make(map[string]*models.Comment),
		notifications: make(map[string]*models.Notification),
		likes:         make(map[string]time.Time),
		saves:         make(map[string]time.Time),
		commentLikes:  make(map[string]time.Time),
		follows:       make(map[string]time.Time),
	}
}

func pairKey(a, b string) string { return a + "/" + b }

func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// === Пользователи ===

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || (user.Username != "" && u.Username == user.Username) {
			return nil, storage.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context, params storage.ListParams) ([]*models.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		if matches(params.Query, u.Name, u.Username, u.Email) {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return page(all, params.Limit, params.Offset), int64(len(all)), nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = user
	return nil
}

func (s *Store) SetHasNewNotifications(ctx context.Context, userID string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	user.HasNewNotifications = value
	return nil
}

// === Подписки ===

func (s *Store) Follow(ctx context.Context, followerID, followingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(followerID, followingID)
	if _, ok := s.follows[key]; !ok {
		s.follows[key] = time.Now().UTC()
	}
	return nil
}

func (s *Store) Unfollow(ctx context.Context, followerID, followingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.follows, pairKey(followerID, followingID))
	return nil
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.follows[pairKey(followerID, followingID)]
	return ok, nil
}

func (s *Store) CountFollowers(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for key := range s.follows {
		if strings.HasSuffix(key, "/"+userID) {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountFollowing(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for key := range s.follows {
		if strings.HasPrefix(key, userID+"/") {
			count++
		}
	}
	return count, nil
}

// === Посты ===

func (s *Store) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	s.posts[post.ID] = post
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return post, nil
}

func (s *Store) ListPosts(ctx context.Context, params storage.ListParams) ([]*models.Post, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if matches(params.Query, p.Body) {
			all = append(all, p)
		}
	}
	sortPostsNewestFirst(all)
	return page(all, params.Limit, params.Offset), int64(len(all)), nil
}

func (s *Store) ListPostsByUser(ctx context.Context, userID string, params storage.ListParams) ([]*models.Post, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Post, 0)
	for _, p := range s.posts {
		if p.UserID == userID {
			all = append(all, p)
		}
	}
	sortPostsNewestFirst(all)
	return page(all, params.Limit, params.Offset), int64(len(all)), nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.posts, id)

	// Зависимые строки уходят вместе с постом, как каскад в postgres.
	for key := range s.likes {
		if strings.HasPrefix(key, id+"/") {
			delete(s.likes, key)
		}
	}
	for commentID, c := range s.comments {
		if c.PostID == id {
			s.deleteCommentLocked(commentID)
		}
	}
	return nil
}

func sortPostsNewestFirst(posts []*models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// === Лайки постов ===

func (s *Store) AddLike(ctx context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(postID, userID)
	if _, ok := s.likes[key]; !ok {
		s.likes[key] = time.Now().UTC()
	}
	return nil
}

func (s *Store) RemoveLike(ctx context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.likes, pairKey(postID, userID))
	return nil
}

func (s *Store) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.likes[pairKey(postID, userID)]
	return ok, nil
}

func (s *Store) CountLikes(ctx context.Context, postID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for key := range s.likes {
		if strings.HasPrefix(key, postID+"/") {
			count++
		}
	}
	return count, nil
}

// === Закладки ===

func (s *Store) SavePost(ctx context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userID, postID)
	if _, ok := s.saves[key]; !ok {
		s.saves[key] = time.Now().UTC()
	}
	return nil
}

func (s *Store) UnsavePost(ctx context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.saves, pairKey(userID, postID))
	return nil
}

func (s *Store) HasSaved(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.saves[pairKey(userID, postID)]
	return ok, nil
}

func (s *Store) ListSavedPosts(ctx context.Context, userID string, params storage.ListParams) ([]*models.Post, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type saved struct {
		post *models.Post
		at   time.Time
	}
	all := make([]saved, 0)
	for key, at := range s.saves {
		if !strings.HasPrefix(key, userID+"/") {
			continue
		}
		postID := strings.TrimPrefix(key, userID+"/")
		if p, ok := s.posts[postID]; ok {
			all = append(all, saved{post: p, at: at})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.After(all[j].at) })

	posts := make([]*models.Post, 0, len(all))
	for _, sv := range all {
		posts = append(posts, sv.post)
	}
	return page(posts, params.Limit, params.Offset), int64(len(posts)), nil
}

// === Комментарии ===

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return nil, storage.ErrNotFound
	}
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now().UTC()
	comment.UpdatedAt = comment.CreatedAt
	s.comments[comment.ID] = comment
	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return comment, nil
}

func (s *Store) ListCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return storage.ErrNotFound
	}
	s.deleteCommentLocked(id)
	return nil
}

func (s *Store) deleteCommentLocked(id string) {
	delete(s.comments, id)
	for key := range s.commentLikes {
		if strings.HasPrefix(key, id+"/") {
			delete(s.commentLikes, key)
		}
	}
}

func (s *Store) CountComments(ctx context.Context, postID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, c := range s.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (s *Store) AddCommentLike(ctx context.Context, commentID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(commentID, userID)
	if _, ok := s.commentLikes[key]; !ok {
		s.commentLikes[key] = time.Now().UTC()
	}
	return nil
}

func (s *Store) RemoveCommentLike(ctx context.Context, commentID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.commentLikes, pairKey(commentID, userID))
	return nil
}

func (s *Store) HasLikedComment(ctx context.Context, commentID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.commentLikes[pairKey(commentID, userID)]
	return ok, nil
}

func (s *Store) CountCommentLikes(ctx context.Context, commentID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for key := range s.commentLikes {
		if strings.HasPrefix(key, commentID+"/") {
			count++
		}
	}
	return count, nil
}

// === Уведомления ===

func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification.ID = uuid.NewString()
	notification.CreatedAt = time.Now().UTC()
	s.notifications[notification.ID] = notification
	return notification, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			all = append(all, n)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (s *Store) ClearNotifications(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.notifications {
		if n.UserID == userID {
			delete(s.notifications, id)
		}
	}
	return nil
}
