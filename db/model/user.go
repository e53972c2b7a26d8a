package model

type User struct {
	ID           uint   `gorm:"primarykey"`
	Username     string `gorm:"size:32;uniqueIndex"`
	Email        string `gorm:"size:32;uniqueIndex"`
	PasswordHash string `gorm:"size:128"`
	AvatarURL    string `gorm:"size:2048"`
}
