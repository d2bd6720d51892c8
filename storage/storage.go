package storage

import (
	"context"
	"errors"

	"github.com/wensaqt/twitter-clone/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// ListParams — аргументы для пагинации и поиска.
// Query — подстрока без учета регистра, пустая строка значит "все".
type ListParams struct {
	Limit  int
	Offset int
	Query  string
}

// Storage определяет контракт для хранилищ.
type Storage interface {
	// Пользователи
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context, params ListParams) ([]*models.User, int64, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SetHasNewNotifications(ctx context.Context, userID string, value bool) error

	// Подписки
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)

	// Посты
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, params ListParams) ([]*models.Post, int64, error)
	ListPostsByUser(ctx context.Context, userID string, params ListParams) ([]*models.Post, int64, error)
	DeletePost(ctx context.Context, id string) error

	// Лайки постов: добавление идемпотентно на уровне хранилища
	// (push if absent), проверку бизнес-правила делает вызывающий.
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	HasLiked(ctx context.Context, postID, userID string) (bool, error)
	CountLikes(ctx context.Context, postID string) (int64, error)

	// Закладки
	SavePost(ctx context.Context, userID, postID string) error
	UnsavePost(ctx context.Context, userID, postID string) error
	HasSaved(ctx context.Context, userID, postID string) (bool, error)
	ListSavedPosts(ctx context.Context, userID string, params ListParams) ([]*models.Post, int64, error)

	// Комментарии
	CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	ListCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	CountComments(ctx context.Context, postID string) (int64, error)
	AddCommentLike(ctx context.Context, commentID, userID string) error
	RemoveCommentLike(ctx context.Context, commentID, userID string) error
	HasLikedComment(ctx context.Context, commentID, userID string) (bool, error)
	CountCommentLikes(ctx context.Context, commentID string) (int64, error)

	// Уведомления
	CreateNotification(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error)
	ClearNotifications(ctx context.Context, userID string) error
}
