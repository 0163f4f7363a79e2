package protocol

import (
	"github.com/dkeye/CourtBridge/internal/domain"
)

type MePayload struct {
	User domain.RoomUser `json:"user"`
}

// RoomPayload is the authoritative snapshot carried by update_room. Mods is
// nil when the snapshot does not mention moderators.
type RoomPayload struct {
	Users []domain.RoomUser `json:"users"`
	Mods  *[]domain.UserID  `json:"mods"`
	Title string            `json:"title,omitempty"`
}

type UserUpdatePayload struct {
	Username string `json:"username"`
}

type MessageBody struct {
	Text        string `json:"text"`
	CharacterID int    `json:"characterId"`
	PoseID      int    `json:"poseId"`
}

type MessagePayload struct {
	UserID  domain.UserID `json:"userId"`
	Message MessageBody   `json:"message"`
}

const (
	PairStatusPending  = "pending"
	PairStatusAccepted = "accepted"
	PairStatusDeclined = "declined"
)

type PairPayload struct {
	LeftID  domain.UserID `json:"leftId"`
	RightID domain.UserID `json:"rightId"`
	Status  string        `json:"status"`
}

type RoomAdminPayload struct {
	Bans []domain.BanRecord `json:"bans"`
}

// Outbound payloads.

type ChangeUsernamePayload struct {
	Username string `json:"username"`
}

type TargetPayload struct {
	UserID domain.UserID `json:"userId"`
}

type PairRequestPayload struct {
	TargetID domain.UserID `json:"targetId"`
}

type PairResponsePayload struct {
	RequesterID domain.UserID `json:"requesterId"`
	Accepted    bool          `json:"accepted"`
}

type ModsPayload struct {
	Mods []domain.UserID `json:"mods"`
}
