package model

import "time"

type Post struct {
	ID        uint      `gorm:"primarykey"`
	Text      string    `gorm:"type:text"`
	VideoURL  string    `gorm:"size:2048"`
	Date      time.Time `gorm:"autoCreateTime"`
	Longitude float64   `gorm:"type:decimal(13,10)"`
	Latitude  float64   `gorm:"type:decimal(13,10)"`
	Category  string    `gorm:"size:32"`
	UserID    uint      `gorm:"index;not null"`
	GroupID   *uint     `gorm:"index"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}
