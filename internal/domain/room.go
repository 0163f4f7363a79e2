package domain

import "time"

// BanRecord is an entry of the admin-only ban list.
type BanRecord struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// RoomView is a read-only copy of the reconciled room state.
type RoomView struct {
	Users      []RoomUser  `json:"users"`
	Moderators []UserID    `json:"moderators"`
	Bans       []BanRecord `json:"bans"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
