package models

import "time"

// Invitation 每个邮箱只允许一行；token 重发时轮换
type Invitation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	IsUsed    bool      `gorm:"not null;default:false" json:"is_used"`
	InvitedBy *uint     `json:"invited_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Invitation) TableName() string { return "invitations" }

// ValidAt 未使用且未过期
func (i *Invitation) ValidAt(now time.Time) bool {
	return !i.IsUsed && i.ExpiresAt.After(now)
}
