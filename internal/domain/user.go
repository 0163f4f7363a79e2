// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxUsernameLen is the display-name ceiling enforced by the courtroom.
const MaxUsernameLen = 30

type UserID string

// RoomUser is a participant as reported by the courtroom.
type RoomUser struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// NameFits reports whether name is accepted as a courtroom display name.
func NameFits(name string) bool {
	n := utf8.RuneCountInString(name)
	return n > 0 && n <= MaxUsernameLen
}

// Identity describes how the bridge presents itself in the courtroom.
type Identity struct {
	BaseName      string
	SpeakerSuffix string
	CharacterID   int
	PoseID        int
}

// Compose returns the display name used when relaying for speaker.
func (i Identity) Compose(speaker string) string {
	return speaker + i.SpeakerSuffix
}

// IsPersona reports whether name follows the bridge's own naming, so the
// bridge can ignore renames it caused itself.
func (i Identity) IsPersona(name string) bool {
	if name == "" {
		return false
	}
	if name == i.BaseName {
		return true
	}
	return i.SpeakerSuffix != "" && strings.HasSuffix(name, i.SpeakerSuffix)
}
