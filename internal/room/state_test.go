package room

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/CourtBridge/internal/clock"
	"github.com/dkeye/CourtBridge/internal/domain"
)

func newTestState() (*State, *clock.FakeClock) {
	c := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewState(c, 10*time.Second), c
}

func users(ids ...string) []domain.RoomUser {
	out := make([]domain.RoomUser, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.RoomUser{ID: domain.UserID(id), Username: "name-" + id})
	}
	return out
}

func modIDs(ids ...string) *[]domain.UserID {
	out := make([]domain.UserID, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.UserID(id))
	}
	return &out
}

func TestSnapshotReplacesUsers(t *testing.T) {
	t.Parallel()

	s, _ := newTestState()
	s.ApplySnapshot(users("a", "b", "c"), nil)
	require.Equal(t, 3, s.Len())

	for i := 1; i <= 5; i++ {
		ids := make([]string, 0, i)
		for j := 0; j < i; j++ {
			ids = append(ids, fmt.Sprintf("u%d", j+i))
		}
		preserved := s.ApplySnapshot(users(ids...), nil)
		assert.False(t, preserved)
		assert.Equal(t, users(ids...), s.Users())
	}
	assert.False(t, s.Has("a"))
}

func TestEmptySnapshotKeepsUsers(t *testing.T) {
	t.Parallel()

	s, _ := newTestState()
	s.ApplySnapshot(users("a", "b"), modIDs("a", "b"))

	preserved := s.ApplySnapshot(nil, modIDs("b"))
	assert.True(t, preserved)
	assert.Equal(t, users("a", "b"), s.Users())
	assert.Equal(t, []domain.UserID{"b"}, s.Moderators(), "mods in the same snapshot still apply")
}

func TestEmptySnapshotOnEmptyRoom(t *testing.T) {
	t.Parallel()

	s, _ := newTestState()
	assert.False(t, s.ApplySnapshot(nil, nil))
	assert.Empty(t, s.Users())
}

func TestModeratorsStaySubsetOfUsers(t *testing.T) {
	t.Parallel()

	s, _ := newTestState()
	s.ApplySnapshot(users("a", "b"), modIDs("a", "b", "ghost"))
	assert.Equal(t, []domain.UserID{"a", "b"}, s.Moderators())

	s.ApplySnapshot(users("b", "c"), nil)
	assert.Equal(t, []domain.UserID{"b"}, s.Moderators(), "stale ids pruned without mods in snapshot")

	s.ApplyModerators([]domain.UserID{"c", "zz"})
	assert.Equal(t, []domain.UserID{"c"}, s.Moderators())

	_, ok := s.ApplyUserLeft("c")
	require.True(t, ok)
	assert.Empty(t, s.Moderators())
	assert.False(t, s.IsModerator("c"))
}

func TestJoinLeaveRename(t *testing.T) {
	t.Parallel()

	s, _ := newTestState()
	s.ApplyUserJoined(domain.RoomUser{ID: "a", Username: "Alice"})
	s.ApplyUserJoined(domain.RoomUser{ID: "a", Username: "Alicia"})
	u, ok := s.User("a")
	require.True(t, ok)
	assert.Equal(t, "Alicia", u.Username)

	old, ok := s.ApplyUserRenamed("a", "Maya")
	require.True(t, ok)
	assert.Equal(t, "Alicia", old)

	_, ok = s.ApplyUserRenamed("nobody", "x")
	assert.False(t, ok)

	left, ok := s.ApplyUserLeft("a")
	require.True(t, ok)
	assert.Equal(t, "Maya", left.Username)

	_, ok = s.ApplyUserLeft("a")
	assert.False(t, ok, "second leave is a no-op")
	assert.Empty(t, s.Users())
}

func TestRecentlyLeftWindow(t *testing.T) {
	t.Parallel()

	s, c := newTestState()
	s.ApplySnapshot(users("a", "b"), nil)
	s.ApplyUserLeft("a")
	assert.True(t, s.RecentlyLeft("a"))
	assert.False(t, s.RecentlyLeft("b"))

	c.Advance(11 * time.Second)
	assert.False(t, s.RecentlyLeft("a"))
}

func TestBansAreReplacedWholesale(t *testing.T) {
	t.Parallel()

	s, _ := newTestState()
	s.ReplaceBans([]domain.BanRecord{{ID: "x", Username: "Troll"}, {ID: "y", Username: "Spam"}})
	s.ReplaceBans([]domain.BanRecord{{ID: "z", Username: "Other"}})
	assert.Equal(t, []domain.BanRecord{{ID: "z", Username: "Other"}}, s.Bans())

	s.ClearBans()
	assert.Empty(t, s.Bans())
}

func TestViewAndReset(t *testing.T) {
	t.Parallel()

	s, c := newTestState()
	s.ApplySnapshot(users("b", "a"), modIDs("a"))
	v := s.View()
	assert.Equal(t, users("a", "b"), v.Users)
	assert.Equal(t, []domain.UserID{"a"}, v.Moderators)
	assert.Equal(t, c.Now(), v.UpdatedAt)

	s.Reset()
	assert.Empty(t, s.View().Users)
	assert.Empty(t, s.View().Moderators)
}
