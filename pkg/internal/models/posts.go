package models

import "time"

type Post struct {
	BaseModel

	Content  string `json:"content"`
	Language string `json:"language"`

	AccountID uint     `json:"account_id" gorm:"index"`
	Account   *Account `json:"account,omitempty"`

	Comments []Comment `json:"comments" gorm:"constraint:OnDelete:CASCADE"`
}

// Comment is owned by its post and never edited once appended.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	PostID    uint     `json:"post_id" gorm:"index"`
	AccountID uint     `json:"account_id" gorm:"index"`
	Account   *Account `json:"account,omitempty"`
}
