package model

import (
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 持久化实体的公共字段
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewSessionID 每次登录生成新的会话标识，对应一个独立工作区
func NewSessionID() string {
	return uuid.NewString()
}

// ObjectKey 上传文件的存储键：prefix/<uuid><小写扩展名>，原始文件名不进入键
func ObjectKey(prefix, fileName string) string {
	return path.Join(prefix, uuid.NewString()+strings.ToLower(filepath.Ext(fileName)))
}
