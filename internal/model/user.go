package model

import (
	"time"
)

type AuthProvider string

const (
	ProviderPassword  AuthProvider = "password"
	ProviderFederated AuthProvider = "federated"
)

// swagger:model User
type User struct {
	BaseModel
	DisplayName string       `gorm:"size:100" json:"displayName"`
	Email       string       `gorm:"size:100;unique;not null" json:"email"`
	Password    string       `gorm:"size:100" json:"-"`
	PhotoURL    string       `gorm:"size:255" json:"photoURL"`
	Provider    AuthProvider `gorm:"size:20;default:'password'" json:"provider"`
	Subject     string       `gorm:"size:255;index" json:"-"` // 第三方身份 sub
	LastLogin   time.Time    `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// Identity 对应用只读的身份信息
type Identity struct {
	UID         uint   `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

func (u *User) Identity() *Identity {
	return &Identity{
		UID:         u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
	}
}
