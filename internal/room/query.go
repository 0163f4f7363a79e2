package room

import (
	"cmp"
	"slices"

	"github.com/dkeye/CourtBridge/internal/domain"
)

// Users returns the present users ordered by id.
func (s *State) Users() []domain.RoomUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersLocked()
}

func (s *State) User(id domain.UserID) (domain.RoomUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *State) Has(id domain.UserID) bool {
	_, ok := s.User(id)
	return ok
}

func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *State) Moderators() []domain.UserID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modsLocked()
}

func (s *State) IsModerator(id domain.UserID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.mods[id]
	return ok
}

// Bans returns the cached ban list. It may be empty even when bans exist.
func (s *State) Bans() []domain.BanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.bans)
}

// RecentlyLeft reports whether id left within the rejoin window.
func (s *State) RecentlyLeft(id domain.UserID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.leftAt[id]
	return ok && s.clock.Now().Sub(at) <= s.rejoinWindow
}

// View copies the whole state in one consistent read.
func (s *State) View() domain.RoomView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.RoomView{
		Users:      s.usersLocked(),
		Moderators: s.modsLocked(),
		Bans:       slices.Clone(s.bans),
		UpdatedAt:  s.updatedAt,
	}
}

func (s *State) usersLocked() []domain.RoomUser {
	out := make([]domain.RoomUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b domain.RoomUser) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *State) modsLocked() []domain.UserID {
	out := make([]domain.UserID, 0, len(s.mods))
	for id := range s.mods {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
