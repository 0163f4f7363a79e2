package core

import (
	"github.com/goccy/go-json"

	"github.com/dkeye/CourtBridge/internal/domain"
)

// Listener receives session events for the messaging-platform side.
// Calls happen on the session's read goroutine and must not block.
type Listener interface {
	OnChatMessage(msg domain.ChatMessage)
	OnUserJoined(user domain.RoomUser)
	OnUserLeft(user domain.RoomUser)
	OnUserRenamed(id domain.UserID, oldName, newName string)
	OnAdminStatusChanged(admin bool)
	OnBanListRefreshed(bans []domain.BanRecord)
	OnPairingAccepted(partner domain.UserID)
	OnPairingDeclined(partner domain.UserID)
	OnEvidenceAdded(payload json.RawMessage)
	OnReconnected()
	OnReconnectExhausted(err error)
}

// NopListener ignores every event. Embed it to implement a subset.
type NopListener struct{}

func (NopListener) OnChatMessage(domain.ChatMessage)            {}
func (NopListener) OnUserJoined(domain.RoomUser)                {}
func (NopListener) OnUserLeft(domain.RoomUser)                  {}
func (NopListener) OnUserRenamed(domain.UserID, string, string) {}
func (NopListener) OnAdminStatusChanged(bool)                   {}
func (NopListener) OnBanListRefreshed([]domain.BanRecord)       {}
func (NopListener) OnPairingAccepted(domain.UserID)             {}
func (NopListener) OnPairingDeclined(domain.UserID)             {}
func (NopListener) OnEvidenceAdded(json.RawMessage)             {}
func (NopListener) OnReconnected()                              {}
func (NopListener) OnReconnectExhausted(error)                  {}
