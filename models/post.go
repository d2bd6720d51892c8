package models

import (
	"time"
)

const (
	MediaTypeImage = "image"
	MediaTypeGif   = "gif"
	MediaTypeVideo = "video"
)

type Post struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;index"`
	MediaURL  string    `json:"mediaUrl"`
	MediaType string    `json:"mediaType" gorm:"type:varchar(10)"` // image, gif, video или пустая строка
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User     User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Likes    []Like    `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// Like — лайк поста. Пара (user, post) уникальна, дедупликацию
// гарантирует хранилище.
type Like struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_post_like"`
	PostID    string    `json:"postId" gorm:"type:uuid;not null;uniqueIndex:idx_user_post_like"`
	CreatedAt time.Time `json:"createdAt"`
}

// SavedPost — закладка. Единственный источник истины для "сохраненных
// постов" пользователя: savedBy на посте считается из этих строк.
type SavedPost struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_post_save"`
	PostID    string    `json:"postId" gorm:"type:uuid;not null;uniqueIndex:idx_user_post_save"`
	CreatedAt time.Time `json:"createdAt"`
}
