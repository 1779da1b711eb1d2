package domain

import "time"

type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	CreatorID int64     `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Creator *User         `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Members []GroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID"`
}

type GroupMember struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id" gorm:"uniqueIndex:idx_group_member"`
	UserID    int64     `json:"user_id" gorm:"uniqueIndex:idx_group_member"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// HasMember reports whether userID belongs to the group. The creator always
// counts as a member.
func (g *Group) HasMember(userID int64) bool {
	if g.CreatorID == userID {
		return true
	}
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
