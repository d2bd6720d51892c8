package models

import (
	"time"
)

type Comment struct {
	ID     string `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Body   string `json:"body" gorm:"type:text;not null"`
	UserID string `json:"userId" gorm:"type:uuid;not null;index"`
	PostID string `json:"postId" gorm:"type:uuid;not null;index"`

	// Эмоциональная реакция: снимок с камеры в base64 и распознанная эмоция.
	ImageData         string `json:"imageData,omitempty" gorm:"type:text"`
	Emotion           string `json:"emotion,omitempty" gorm:"type:varchar(20)"`
	IsEmotionReaction bool   `json:"isEmotionReaction" gorm:"default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User  User          `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Likes []CommentLike `json:"-" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
}

// CommentLike — лайк комментария, пара (user, comment) уникальна.
type CommentLike struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_comment_like"`
	CommentID string    `json:"commentId" gorm:"type:uuid;not null;uniqueIndex:idx_user_comment_like"`
	CreatedAt time.Time `json:"createdAt"`
}
