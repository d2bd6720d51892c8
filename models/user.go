package models

import (
	"time"
)

type User struct {
	ID                  string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name                string    `json:"name" gorm:"type:varchar(255);not null"`
	Email               string    `json:"email" gorm:"type:varchar(255);unique;not null"`
	Username            string    `json:"username" gorm:"type:varchar(255);unique"`
	Password            string    `json:"-" gorm:"not null"`
	Bio                 string    `json:"bio" gorm:"type:text"`
	Location            string    `json:"location"`
	ProfileImage        string    `json:"profileImage"`
	CoverImage          string    `json:"coverImage"`
	HasNewNotifications bool      `json:"hasNewNotifications" gorm:"default:false"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Follow — подписка: follower подписан на following.
// Пара должна быть уникальной.
type Follow struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FollowerID  string    `json:"followerId" gorm:"type:uuid;not null;uniqueIndex:idx_follower_following"`
	FollowingID string    `json:"followingId" gorm:"type:uuid;not null;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"createdAt"`
}
