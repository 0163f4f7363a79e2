package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameFits(t *testing.T) {
	t.Parallel()

	assert.False(t, NameFits(""))
	assert.True(t, NameFits("a"))
	assert.True(t, NameFits(strings.Repeat("a", MaxUsernameLen)))
	assert.False(t, NameFits(strings.Repeat("a", MaxUsernameLen+1)))
	assert.True(t, NameFits(strings.Repeat("ü", MaxUsernameLen)))
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	id := Identity{BaseName: "Bridge", SpeakerSuffix: " [d]"}
	assert.Equal(t, "Maya [d]", id.Compose("Maya"))
	assert.True(t, id.IsPersona("Bridge"))
	assert.True(t, id.IsPersona("Maya [d]"))
	assert.False(t, id.IsPersona("Maya"))
	assert.False(t, id.IsPersona(""))

	bare := Identity{BaseName: "Bridge"}
	assert.False(t, bare.IsPersona("Maya"))
	assert.True(t, bare.IsPersona("Bridge"))
}

func TestAdminActionValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, AdminAction{Kind: ActionRemoveBan, Target: "u1"}.Validate())
	assert.NoError(t, AdminAction{Kind: ActionSetting, Setting: AdminSetting{SettingTitle, "x"}}.Validate())
	assert.ErrorIs(t, AdminAction{Kind: ActionTransferOwner}.Validate(), ErrInvalidArgument)
	assert.ErrorIs(t, AdminAction{Kind: ActionSetting, Setting: AdminSetting{SettingSlowMode, "99"}}.Validate(), ErrInvalidArgument)
	assert.ErrorIs(t, AdminAction{Kind: "nuke"}.Validate(), ErrInvalidArgument)

	assert.Equal(t, "make u1 moderator", AdminAction{Kind: ActionSetModerator, Target: "u1", Grant: true}.String())
	assert.Equal(t, `set title to "x"`, AdminAction{Kind: ActionSetting, Setting: AdminSetting{SettingTitle, "x"}}.String())
}
