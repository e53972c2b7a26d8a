package model

import "time"

type Comment struct {
	ID     uint      `gorm:"primarykey"`
	Text   string    `gorm:"type:text"`
	Date   time.Time `gorm:"autoCreateTime"`
	PostID uint      `gorm:"index;not null"`
	UserID uint      `gorm:"index;not null"`
	Post   *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	User   *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
