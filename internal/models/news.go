package models

import (
	"time"

	"gorm.io/gorm"
)

// News is a published article. It is created by fixtures or the CLI and is
// read-only from the site.
type News struct {
	ID    uint      `gorm:"primaryKey" json:"id"`
	Title string    `gorm:"size:200;not null" json:"title"`
	Text  string    `gorm:"type:text;not null" json:"text"`
	Date  time.Time `gorm:"index;not null" json:"date"`

	// 非数据库字段，列表页填充
	CommentCount int `gorm:"-" json:"comment_count"`
}

func (News) TableName() string {
	return "news"
}

// BeforeCreate defaults Date to the creation time.
func (n *News) BeforeCreate(tx *gorm.DB) error {
	if n.Date.IsZero() {
		n.Date = tx.NowFunc()
	}
	return nil
}
