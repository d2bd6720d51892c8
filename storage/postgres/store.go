package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wensaqt/twitter-clone/models"
	"github.com/wensaqt/twitter-clone/storage"
)

// Store реализует интерфейс Storage с использованием PostgreSQL.
type Store struct {
	db *gorm.DB
}

// New оборачивает открытое соединение и выполняет миграцию схемы.
func New(db *gorm.DB) (*Store, error) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Like{},
		&models.SavedPost{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Notification{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return storage.ErrDuplicate
	}
	return err
}

// === Пользователи ===

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context, params storage.ListParams) ([]*models.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if params.Query != "" {
		like := "%" + params.Query + "%"
		query = query.Where("name ILIKE ? OR username ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	err := query.Order("created_at DESC").Limit(params.Limit).Offset(params.Offset).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	// Save вставил бы отсутствующую строку, контракт требует ErrNotFound.
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Select("*").Omit("id", "created_at").
		Updates(user)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) SetHasNewNotifications(ctx context.Context, userID string, value bool) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("has_new_notifications", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// === Подписки ===

func (s *Store) Follow(ctx context.Context, followerID, followingID string) error {
	follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
	return translate(s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow).Error)
}

func (s *Store) Unfollow(ctx context.Context, followerID, followingID string) error {
	return translate(s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error)
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *Store) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// === Посты ===

func (s *Store) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, translate(err)
	}
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *Store) ListPosts(ctx context.Context, params storage.ListParams) ([]*models.Post, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Post{})
	if params.Query != "" {
		query = query.Where("body ILIKE ?", "%"+params.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := query.Order("created_at DESC").Limit(params.Limit).Offset(params.Offset).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *Store) ListPostsByUser(ctx context.Context, userID string, params storage.ListParams) ([]*models.Post, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := query.Order("created_at DESC").Limit(params.Limit).Offset(params.Offset).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// === Лайки постов ===

func (s *Store) AddLike(ctx context.Context, postID, userID string) error {
	like := models.Like{PostID: postID, UserID: userID}
	return translate(s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error)
}

func (s *Store) RemoveLike(ctx context.Context, postID, userID string) error {
	return translate(s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{}).Error)
}

func (s *Store) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	return count > 0, err
}

func (s *Store) CountLikes(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// === Закладки ===

func (s *Store) SavePost(ctx context.Context, userID, postID string) error {
	saved := models.SavedPost{UserID: userID, PostID: postID}
	return translate(s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&saved).Error)
}

func (s *Store) UnsavePost(ctx context.Context, userID, postID string) error {
	return translate(s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.SavedPost{}).Error)
}

func (s *Store) HasSaved(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SavedPost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (s *Store) ListSavedPosts(ctx context.Context, userID string, params storage.ListParams) ([]*models.Post, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := query.Order("saved_posts.created_at DESC").
		Limit(params.Limit).Offset(params.Offset).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// === Комментарии ===

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, translate(err)
	}
	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (s *Store) ListCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CountComments(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (s *Store) AddCommentLike(ctx context.Context, commentID, userID string) error {
	like := models.CommentLike{CommentID: commentID, UserID: userID}
	return translate(s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error)
}

func (s *Store) RemoveCommentLike(ctx context.Context, commentID, userID string) error {
	return translate(s.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentLike{}).Error)
}

func (s *Store) HasLikedComment(ctx context.Context, commentID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).Count(&count).Error
	return count > 0, err
}

func (s *Store) CountCommentLikes(ctx context.Context, commentID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}

// === Уведомления ===

func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, translate(err)
	}
	return notification, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (s *Store) ClearNotifications(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).Delete(&models.Notification{}).Error
}
