// Package models holds the persisted records shared by the services.
package models

import "time"

const (
	UsernameMinLength    = 3
	UsernameMaxLength    = 63
	EmailMinLength       = 5
	EmailMaxLength       = 63
	PasswordMinLength    = 8
	PasswordMaxLength    = 255
	TitleMinLength       = 1
	TitleMaxLength       = 255
	DescriptionMaxLength = 1023
	OptionMinLength      = 1
	OptionMaxLength      = 255

	MaxOptionsPerPoll = 16
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:63;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"size:63;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	Verified  bool      `json:"verified" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"join_time" gorm:"not null;index"`
}

func (User) TableName() string {
	return "users"
}

// Session stores a hash of the opaque token handed to the client, never the
// token itself.
type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TokenHash string    `json:"-" gorm:"size:64;uniqueIndex;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	IPAddress string    `json:"ip_address" gorm:"size:45"`
	UserAgent string    `json:"user_agent" gorm:"size:500"`
	CreatedAt time.Time `json:"create_time" gorm:"not null;index"`
	LastUsed  time.Time `json:"last_used"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
}

func (Session) TableName() string {
	return "sessions"
}

type Verification struct {
	ID        string    `json:"-" gorm:"primaryKey;size:128"`
	Email     string    `json:"email" gorm:"size:63;uniqueIndex;not null"`
	CreatedAt time.Time `json:"create_time" gorm:"not null;index"`
}

func (Verification) TableName() string {
	return "verifications"
}

type PasswordReset struct {
	ID        string    `json:"-" gorm:"primaryKey;size:128"`
	Email     string    `json:"email" gorm:"size:63;uniqueIndex;not null"`
	CreatedAt time.Time `json:"create_time" gorm:"not null;index"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

type Poll struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:1023;not null;default:''"`
	CreatedAt   time.Time `json:"create_time" gorm:"not null"`
}

func (Poll) TableName() string {
	return "polls"
}

type PollOption struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	PollID uint   `json:"poll_id" gorm:"not null;index"`
	Value  string `json:"value" gorm:"size:255;not null"`
}

func (PollOption) TableName() string {
	return "poll_options"
}

// PollVote is unique per (user, poll); a second vote replaces the first.
type PollVote struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_poll_votes_user_poll"`
	PollID       uint      `json:"poll_id" gorm:"not null;uniqueIndex:idx_poll_votes_user_poll;index"`
	PollOptionID uint      `json:"poll_option_id" gorm:"not null;index"`
	VoteTime     time.Time `json:"vote_time" gorm:"not null"`
}

func (PollVote) TableName() string {
	return "poll_votes"
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Verification{},
		&PasswordReset{},
		&Poll{},
		&PollOption{},
		&PollVote{},
	}
}
