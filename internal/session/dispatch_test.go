package session

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/CourtBridge/internal/clock"
	"github.com/dkeye/CourtBridge/internal/core/mocks"
	"github.com/dkeye/CourtBridge/internal/domain"
	"github.com/dkeye/CourtBridge/internal/protocol"
)

func newDispatchSession(t *testing.T) (*Session, *mocks.MockListener) {
	t.Helper()
	ctrl := gomock.NewController(t)
	l := mocks.NewMockListener(ctrl)
	s := New(testOptions(nil, l, clock.Real()))
	feed(t, s, `42["me",{"user":{"id":"self","username":"Bridge"}}]`)
	return s, l
}

// feed runs raw frames through the same path as the read loop.
func feed(t *testing.T, s *Session, raws ...string) {
	t.Helper()
	for _, raw := range raws {
		s.handleFrame(nil, protocol.Decode(raw))
	}
}

func TestSnapshotThenLeave(t *testing.T) {
	s, l := newDispatchSession(t)
	l.EXPECT().OnUserLeft(domain.RoomUser{ID: "a", Username: "Alice"}).Times(1)

	feed(t, s,
		`42["update_room",{"users":[{"id":"a","username":"Alice"}]}]`,
		`42["user_left","a"]`,
	)

	assert.Empty(t, s.Users())
	assert.Equal(t, domain.Solo(), s.PairState())
	assert.True(t, s.RecentlyLeft("a"))
}

func TestEmptySnapshotKeepsRoomButAppliesMods(t *testing.T) {
	s, _ := newDispatchSession(t)
	feed(t, s,
		`42["update_room",{"users":[{"id":"a","username":"Alice"},{"id":"b","username":"Bob"}],"mods":["a"]}]`,
		`42["update_room",{"users":[],"mods":["b","ghost"]}]`,
	)
	assert.Len(t, s.Users(), 2)
	assert.Equal(t, []domain.UserID{"b"}, s.Moderators())

	feed(t, s, `42["update_room",{"users":[{"id":"c","username":"Cy"}]}]`)
	assert.Equal(t, []domain.RoomUser{{ID: "c", Username: "Cy"}}, s.Users())
	assert.Empty(t, s.Moderators())
}

func TestJoinNotifiesUnlessSelf(t *testing.T) {
	s, l := newDispatchSession(t)
	l.EXPECT().OnUserJoined(domain.RoomUser{ID: "a", Username: "Alice"}).Times(1)

	feed(t, s,
		`42["user_joined",{"id":"self","username":"Bridge"}]`,
		`42["user_joined",{"id":"a","username":"Alice"}]`,
	)
	assert.Len(t, s.Users(), 2)
}

func TestLeaveOfUnknownUserIsSilent(t *testing.T) {
	s, _ := newDispatchSession(t)
	feed(t, s, `42["user_left","nobody"]`)
	assert.Empty(t, s.Users())
}

func TestRenameSkipsPersonaNames(t *testing.T) {
	s, l := newDispatchSession(t)
	l.EXPECT().OnUserRenamed(domain.UserID("a"), "Alice", "Alicia").Times(1)

	feed(t, s,
		`42["update_room",{"users":[{"id":"a","username":"Alice"},{"id":"b","username":"Bob"}]}]`,
		`42["update_user","a",{"username":"Alicia"}]`,
		`42["update_user","b",{"username":"Bob (d)"}]`,
		`42["update_user","b",{"username":"Bridge"}]`,
	)
	u, ok := s.room.User("b")
	require.True(t, ok)
	assert.Equal(t, "Bridge", u.Username)
}

func TestChatMessageUsesRoomName(t *testing.T) {
	s, l := newDispatchSession(t)
	l.EXPECT().OnChatMessage(domain.ChatMessage{SpeakerID: "a", SpeakerName: "Alice", Text: "objection!"}).Times(1)
	l.EXPECT().OnChatMessage(domain.ChatMessage{SpeakerID: "z", SpeakerName: "z", Text: "hi"}).Times(1)

	feed(t, s,
		`42["update_room",{"users":[{"id":"a","username":"Alice"}]}]`,
		`42["message",{"userId":"a","message":{"text":"objection!","characterId":1,"poseId":2}}]`,
		`42["message",{"userId":"self","message":{"text":"echo"}}]`,
		`42["message",{"userId":"z","message":{"text":"hi"}}] trailing`,
	)
}

func TestOwnerTransferTogglesAdmin(t *testing.T) {
	s, l := newDispatchSession(t)
	gomock.InOrder(
		l.EXPECT().OnAdminStatusChanged(true),
		l.EXPECT().OnAdminStatusChanged(false),
	)

	feed(t, s, `42["owner_transfer","self"]`)
	assert.True(t, s.IsAdmin())
	feed(t, s, `42["owner_transfer","self"]`)

	feed(t, s, `42["owner_transfer","other"]`)
	assert.False(t, s.IsAdmin())

	settings := []domain.AdminSetting{
		{Kind: domain.SettingTitle, Value: "Court"},
		{Kind: domain.SettingSlowMode, Value: "5"},
		{Kind: domain.SettingPassword, Value: "pw"},
		{Kind: domain.SettingTextbox, Value: "1"},
		{Kind: domain.SettingAspectRatio, Value: "16:9"},
		{Kind: domain.SettingSpectating, Value: "on"},
	}
	for _, st := range settings {
		assert.ErrorIs(t, s.SetAdminSetting(st), domain.ErrNotAdmin, st.Kind)
	}
	assert.ErrorIs(t, s.RemoveBan("x"), domain.ErrNotAdmin)
	assert.ErrorIs(t, s.RequestOwnershipTransfer("x"), domain.ErrNotAdmin)
	assert.ErrorIs(t, s.SetModerator("x", true), domain.ErrNotAdmin)
	assert.ErrorIs(t, s.RefreshBans(), domain.ErrNotAdmin)
}

func TestBanListOnlyWhileAdmin(t *testing.T) {
	s, l := newDispatchSession(t)
	bans := []domain.BanRecord{{ID: "b1", Username: "Troll"}}
	l.EXPECT().OnAdminStatusChanged(true)
	l.EXPECT().OnBanListRefreshed(bans).Times(1)

	feed(t, s, `42["update_room_admin",{"bans":[{"id":"b0","username":"Old"}]}]`)
	assert.Empty(t, s.Bans())

	feed(t, s,
		`42["owner_transfer","self"]`,
		`42["update_room_admin",{"bans":[{"id":"b1","username":"Troll"}]}]`,
	)
	assert.Equal(t, bans, s.Bans())
}

func TestPartnerLeavingResetsPairOnce(t *testing.T) {
	s, l := newDispatchSession(t)
	l.EXPECT().OnUserLeft(domain.RoomUser{ID: "p", Username: "Pat"}).Times(1)

	feed(t, s, `42["update_room",{"users":[{"id":"p","username":"Pat"}]}]`)
	require.True(t, s.pair.Offer("p"))

	feed(t, s, `42["user_left","p"]`, `42["user_left","p"]`)
	assert.Equal(t, domain.Solo(), s.PairState())
}

func TestSnapshotWithoutPartnerResetsPair(t *testing.T) {
	s, _ := newDispatchSession(t)
	feed(t, s, `42["update_room",{"users":[{"id":"p","username":"Pat"}]}]`)
	require.NoError(t, s.pair.Request("p"))

	feed(t, s, `42["update_room",{"users":[{"id":"q","username":"Quin"}]}]`)
	assert.Equal(t, domain.Solo(), s.PairState())
}

func TestPairAnswerResolvesPendingRequest(t *testing.T) {
	s, l := newDispatchSession(t)
	l.EXPECT().OnPairingDeclined(domain.UserID("p")).Times(1)
	l.EXPECT().OnPairingAccepted(domain.UserID("q")).Times(1)

	require.NoError(t, s.pair.Request("p"))
	feed(t, s, `42["create_pair",{"leftId":"self","rightId":"p","status":"declined"}]`)
	assert.Equal(t, domain.Solo(), s.PairState())

	require.NoError(t, s.pair.Request("q"))
	feed(t, s,
		`42["create_pair",{"leftId":"self","rightId":"other","status":"accepted"}]`,
		`42["create_pair",{"leftId":"self","rightId":"q","status":"accepted"}]`,
	)
	assert.Equal(t, domain.Paired("q"), s.PairState())
}

func TestEvidencePassthrough(t *testing.T) {
	s, l := newDispatchSession(t)
	l.EXPECT().OnEvidenceAdded(gomock.Any()).Do(func(p json.RawMessage) {
		assert.JSONEq(t, `{"id":3,"name":"Knife"}`, string(p))
	}).Times(1)

	feed(t, s, `42["add_evidence",{"id":3,"name":"Knife"}]`)
}

func TestMalformedFramesAreDropped(t *testing.T) {
	s, _ := newDispatchSession(t)
	feed(t, s,
		`42["update_room",{"users":[{"id":"a","username":"Alice"}]}]`,
		`42["user_left",{`,
		`42["user_joined","not-an-object"]`,
		`42["update_user","a"]`,
		`42["unknown_event",1]`,
		`9garbage`,
		``,
	)
	assert.Equal(t, []domain.RoomUser{{ID: "a", Username: "Alice"}}, s.Users())
}
