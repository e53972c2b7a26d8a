// Package serializers shapes models into their public JSON form. Every output
// type is an allow-list: fields not declared here, such as password hashes
// and raw foreign keys, never reach a response.
package serializers

import (
	"time"

	"github.com/puoklam/spot-backend/db/model"
)

// many applies one to every element of in.
func many[M any, O any](in []M, one func(*M) O) []O {
	out := make([]O, len(in))
	for i := range in {
		out[i] = one(&in[i])
	}
	return out
}

type OutUser struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func User(u *model.User) OutUser {
	return OutUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

func Users(us []model.User) []OutUser {
	return many(us, User)
}

type OutGroup struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func Group(g *model.Group) OutGroup {
	return OutGroup{ID: g.ID, Name: g.Name}
}

func Groups(gs []model.Group) []OutGroup {
	return many(gs, Group)
}

type OutMembership struct {
	GroupName string `json:"group.name"`
	Username  string `json:"user.username"`
	Admin     bool   `json:"admin"`
}

func Membership(m *model.Membership) OutMembership {
	return OutMembership{
		GroupName: groupName(m.Group),
		Username:  username(m.User),
		Admin:     m.Admin,
	}
}

func Memberships(ms []model.Membership) []OutMembership {
	return many(ms, Membership)
}

type OutFriendship struct {
	Requester string `json:"requester.username"`
	Recipient string `json:"recipient.username"`
	Accepted  bool   `json:"accepted"`
}

func Friendship(f *model.Friendship) OutFriendship {
	return OutFriendship{
		Requester: username(f.Requester),
		Recipient: username(f.Recipient),
		Accepted:  f.Accepted,
	}
}

func Friendships(fs []model.Friendship) []OutFriendship {
	return many(fs, Friendship)
}

type OutPost struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	VideoURL  string    `json:"video_url"`
	Date      time.Time `json:"date"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Category  string    `json:"category"`
	Username  string    `json:"user.username"`
	GroupName *string   `json:"group.name"`
}

func Post(p *model.Post) OutPost {
	out := OutPost{
		ID:        p.ID,
		Text:      p.Text,
		VideoURL:  p.VideoURL,
		Date:      p.Date,
		Longitude: p.Longitude,
		Latitude:  p.Latitude,
		Category:  p.Category,
		Username:  username(p.User),
	}
	if p.Group != nil {
		name := p.Group.Name
		out.GroupName = &name
	}
	return out
}

func Posts(ps []model.Post) []OutPost {
	return many(ps, Post)
}

type OutComment struct {
	ID       uint      `json:"id"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
	Username string    `json:"user.username"`
}

func Comment(c *model.Comment) OutComment {
	return OutComment{
		ID:       c.ID,
		Text:     c.Text,
		Date:     c.Date,
		Username: username(c.User),
	}
}

func Comments(cs []model.Comment) []OutComment {
	return many(cs, Comment)
}

func username(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

func groupName(g *model.Group) string {
	if g == nil {
		return ""
	}
	return g.Name
}
