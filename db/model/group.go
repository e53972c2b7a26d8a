package model

type Group struct {
	ID   uint   `gorm:"primarykey"`
	Name string `gorm:"size:32"`
}
