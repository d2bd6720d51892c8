package models

import (
	"time"
)

// UserSnippet — автор в ленте, только поля для отображения.
type UserSnippet struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
	Email        string `json:"email"`
}

func Snippet(u *User) UserSnippet {
	return UserSnippet{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
		Email:        u.Email,
	}
}

// PostItem — проекция поста для ленты: лайки и комментарии как счетчики,
// hasLiked/hasSaved считаются для текущего зрителя.
type PostItem struct {
	ID        string      `json:"id"`
	Body      string      `json:"body"`
	MediaURL  string      `json:"mediaUrl"`
	MediaType string      `json:"mediaType"`
	User      UserSnippet `json:"user"`
	Likes     int64       `json:"likes"`
	Comments  int64       `json:"comments"`
	HasLiked  bool        `json:"hasLiked"`
	HasSaved  bool        `json:"hasSaved"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type FeedResponse struct {
	Posts  []PostItem `json:"posts"`
	IsNext bool       `json:"isNext"`
}

type CommentItem struct {
	ID                string      `json:"id"`
	Body              string      `json:"body"`
	User              UserSnippet `json:"user"`
	Likes             int64       `json:"likes"`
	HasLiked          bool        `json:"hasLiked"`
	ImageData         string      `json:"imageData,omitempty"`
	Emotion           string      `json:"emotion,omitempty"`
	IsEmotionReaction bool        `json:"isEmotionReaction"`
	CreatedAt         time.Time   `json:"createdAt"`
}

type UserItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	ProfileImage string    `json:"profileImage"`
	CoverImage   string    `json:"coverImage"`
	Followers    int64     `json:"followers"`
	Following    int64     `json:"following"`
	IsFollowing  bool      `json:"isFollowing"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UsersResponse struct {
	Users  []UserItem `json:"users"`
	IsNext bool       `json:"isNext"`
}
