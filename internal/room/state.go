// Package room keeps the reconciled view of the courtroom: who is present,
// who moderates and, while the bridge is admin, who is banned.
package room

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/clock"
	"github.com/dkeye/CourtBridge/internal/domain"
)

// State is a threadsafe in-memory room. Mutations happen only through the
// Apply* methods, each of which completes under a single lock.
type State struct {
	clock        clock.Clock
	rejoinWindow time.Duration

	mu        sync.RWMutex
	users     map[domain.UserID]domain.RoomUser
	mods      map[domain.UserID]struct{}
	bans      []domain.BanRecord
	leftAt    map[domain.UserID]time.Time
	updatedAt time.Time
}

func NewState(c clock.Clock, rejoinWindow time.Duration) *State {
	return &State{
		clock:        c,
		rejoinWindow: rejoinWindow,
		users:        make(map[domain.UserID]domain.RoomUser),
		mods:         make(map[domain.UserID]struct{}),
		leftAt:       make(map[domain.UserID]time.Time),
	}
}

// ApplySnapshot replaces the user map with users. An empty snapshot over a
// non-empty map is treated as a partial server response and the map is kept;
// mods are still applied. It reports whether the user map was preserved.
func (s *State) ApplySnapshot(users []domain.RoomUser, mods *[]domain.UserID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	preserved := len(users) == 0 && len(s.users) > 0
	if preserved {
		log.Warn().Str("module", "room").Int("current", len(s.users)).Msg("empty snapshot ignored, keeping users")
	} else {
		next := make(map[domain.UserID]domain.RoomUser, len(users))
		for _, u := range users {
			next[u.ID] = u
		}
		s.users = next
	}

	if mods != nil {
		s.mods = make(map[domain.UserID]struct{}, len(*mods))
		for _, id := range *mods {
			s.mods[id] = struct{}{}
		}
	}
	s.pruneModsLocked()
	s.updatedAt = s.clock.Now()

	log.Debug().Str("module", "room").Int("users", len(s.users)).Int("mods", len(s.mods)).Bool("preserved", preserved).Msg("snapshot applied")
	return preserved
}

// ApplyModerators replaces the moderator set, keeping only present users.
func (s *State) ApplyModerators(ids []domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mods = make(map[domain.UserID]struct{}, len(ids))
	for _, id := range ids {
		s.mods[id] = struct{}{}
	}
	s.pruneModsLocked()
	s.updatedAt = s.clock.Now()
}

// ApplyUserJoined adds or overwrites one user.
func (s *State) ApplyUserJoined(u domain.RoomUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	s.updatedAt = s.clock.Now()
	log.Debug().Str("module", "room").Str("user_id", string(u.ID)).Str("username", u.Username).Msg("user joined")
}

// ApplyUserLeft removes id if present and records when it left.
func (s *State) ApplyUserLeft(id domain.UserID) (domain.RoomUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.RoomUser{}, false
	}
	delete(s.users, id)
	delete(s.mods, id)

	now := s.clock.Now()
	s.leftAt[id] = now
	for other, at := range s.leftAt {
		if now.Sub(at) > s.rejoinWindow {
			delete(s.leftAt, other)
		}
	}
	s.updatedAt = now
	log.Debug().Str("module", "room").Str("user_id", string(id)).Msg("user left")
	return u, true
}

// ApplyUserRenamed updates a display name and returns the previous one.
func (s *State) ApplyUserRenamed(id domain.UserID, name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return "", false
	}
	old := u.Username
	u.Username = name
	s.users[id] = u
	s.updatedAt = s.clock.Now()
	return old, true
}

// ReplaceBans swaps the ban cache wholesale.
func (s *State) ReplaceBans(bans []domain.BanRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans = slices.Clone(bans)
}

func (s *State) ClearBans() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans = nil
}

// Reset forgets everything; used when the connection is lost.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[domain.UserID]domain.RoomUser)
	s.mods = make(map[domain.UserID]struct{})
	s.bans = nil
	s.updatedAt = s.clock.Now()
}

func (s *State) pruneModsLocked() {
	for id := range s.mods {
		if _, ok := s.users[id]; !ok {
			delete(s.mods, id)
		}
	}
}
