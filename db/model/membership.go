package model

// Membership links one group to one user. The (GroupID, UserID) pair is the
// primary key, so a user holds at most one membership per group.
type Membership struct {
	GroupID uint   `gorm:"primaryKey;autoIncrement:false"`
	UserID  uint   `gorm:"primaryKey;autoIncrement:false"`
	Admin   bool   `gorm:"not null;default:false"`
	Group   *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	User    *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
