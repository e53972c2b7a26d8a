package model

// Friendship is a directed friend request from Requester to Recipient.
// Accepted stays false until the recipient confirms.
type Friendship struct {
	RequesterID uint  `gorm:"primaryKey;autoIncrement:false"`
	RecipientID uint  `gorm:"primaryKey;autoIncrement:false"`
	Accepted    bool  `gorm:"not null;default:false"`
	Requester   *User `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE"`
	Recipient   *User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
}

// Other returns the id of the user on the opposite side from uid.
func (f *Friendship) Other(uid uint) uint {
	if f.RequesterID == uid {
		return f.RecipientID
	}
	return f.RequesterID
}
