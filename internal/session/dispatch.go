package session

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/domain"
	"github.com/dkeye/CourtBridge/internal/protocol"
)

// dispatch applies one event frame. It runs on the read goroutine only, so
// events are handled strictly in arrival order.
func (s *Session) dispatch(f protocol.Frame) {
	var err error
	switch f.Name {
	case protocol.EvMe:
		err = s.onMe(f)
	case protocol.EvUpdateRoom:
		err = s.onUpdateRoom(f)
	case protocol.EvUserJoined:
		err = s.onUserJoined(f)
	case protocol.EvUserLeft:
		err = s.onUserLeft(f)
	case protocol.EvUpdateUser:
		err = s.onUpdateUser(f)
	case protocol.EvMessage:
		err = s.onMessage(f)
	case protocol.EvCreatePair:
		err = s.onCreatePair(f)
	case protocol.EvOwnerTransfer:
		err = s.onOwnerTransfer(f)
	case protocol.EvUpdateMods:
		err = s.onUpdateMods(f)
	case protocol.EvUpdateRoomAdmin:
		err = s.onUpdateRoomAdmin(f)
	case protocol.EvAddEvidence:
		if len(f.Args) > 0 {
			s.listener.OnEvidenceAdded(f.Args[0])
		}
	default:
		log.Debug().Str("module", "session").Str("event", f.Name).Msg("unhandled event")
	}
	if err != nil {
		log.Warn().Err(err).Str("module", "session").Str("event", f.Name).Msg("bad event payload, dropped")
	}
}

func (s *Session) onMe(f protocol.Frame) error {
	var p protocol.MePayload
	if err := f.Arg(0, &p); err != nil {
		return err
	}
	s.mu.Lock()
	s.selfID = p.User.ID
	s.mu.Unlock()
	log.Info().Str("module", "session").Str("user_id", string(p.User.ID)).Str("username", p.User.Username).Msg("self identity")
	return nil
}

func (s *Session) onUpdateRoom(f protocol.Frame) error {
	var p protocol.RoomPayload
	if err := f.Arg(0, &p); err != nil {
		return err
	}
	if preserved := s.room.ApplySnapshot(p.Users, p.Mods); preserved {
		return nil
	}
	if partner := s.pair.State(); partner.Status != domain.PairSolo && !s.room.Has(partner.Partner) {
		s.pair.PartnerLeft(partner.Partner)
	}
	return nil
}

func (s *Session) onUserJoined(f protocol.Frame) error {
	var u domain.RoomUser
	if err := f.Arg(0, &u); err != nil {
		return err
	}
	if s.room.RecentlyLeft(u.ID) {
		log.Debug().Str("module", "session").Str("user_id", string(u.ID)).Msg("user rejoined")
	}
	s.room.ApplyUserJoined(u)
	if u.ID != s.SelfID() {
		s.listener.OnUserJoined(u)
	}
	return nil
}

func (s *Session) onUserLeft(f protocol.Frame) error {
	var id domain.UserID
	if err := f.Arg(0, &id); err != nil {
		return err
	}
	u, ok := s.room.ApplyUserLeft(id)
	if ok && id != s.SelfID() {
		s.listener.OnUserLeft(u)
	}
	s.pair.PartnerLeft(id)
	return nil
}

func (s *Session) onUpdateUser(f protocol.Frame) error {
	var (
		id domain.UserID
		p  protocol.UserUpdatePayload
	)
	if err := f.Arg(0, &id); err != nil {
		return err
	}
	if err := f.Arg(1, &p); err != nil {
		return err
	}
	old, ok := s.room.ApplyUserRenamed(id, p.Username)
	if !ok || old == p.Username || id == s.SelfID() {
		return nil
	}
	if s.opts.Identity.IsPersona(old) || s.opts.Identity.IsPersona(p.Username) {
		return nil
	}
	s.listener.OnUserRenamed(id, old, p.Username)
	return nil
}

func (s *Session) onMessage(f protocol.Frame) error {
	var p protocol.MessagePayload
	if err := f.Arg(0, &p); err != nil {
		return err
	}
	if p.UserID == s.SelfID() {
		return nil
	}
	name := string(p.UserID)
	if u, ok := s.room.User(p.UserID); ok {
		name = u.Username
	}
	s.listener.OnChatMessage(domain.ChatMessage{
		SpeakerID:   p.UserID,
		SpeakerName: name,
		Text:        p.Message.Text,
	})
	return nil
}

func (s *Session) onCreatePair(f protocol.Frame) error {
	var p protocol.PairPayload
	if err := f.Arg(0, &p); err != nil {
		return err
	}
	self := s.SelfID()
	if self == "" {
		return nil
	}
	switch {
	case p.RightID == self && p.Status == protocol.PairStatusPending:
		if !s.pair.Offer(p.LeftID) {
			return nil
		}
		resp := protocol.PairResponsePayload{RequesterID: p.LeftID, Accepted: true}
		if err := s.emit(protocol.EvRespondToPair, resp); err != nil {
			s.pair.PartnerLeft(p.LeftID)
			return err
		}
		s.listener.OnPairingAccepted(p.LeftID)
	case p.LeftID == self && p.Status == protocol.PairStatusAccepted:
		if s.pair.Resolve(p.RightID, true) {
			s.listener.OnPairingAccepted(p.RightID)
		}
	case p.LeftID == self && p.Status == protocol.PairStatusDeclined:
		if s.pair.Resolve(p.RightID, false) {
			s.listener.OnPairingDeclined(p.RightID)
		}
	}
	return nil
}

func (s *Session) onOwnerTransfer(f protocol.Frame) error {
	var id domain.UserID
	if err := f.Arg(0, &id); err != nil {
		return err
	}
	s.mu.Lock()
	was := s.admin
	s.admin = id != "" && id == s.selfID
	now := s.admin
	s.mu.Unlock()

	if !now {
		s.room.ClearBans()
	}
	if was != now {
		log.Info().Str("module", "session").Bool("admin", now).Msg("admin status changed")
		s.listener.OnAdminStatusChanged(now)
	}
	return nil
}

func (s *Session) onUpdateMods(f protocol.Frame) error {
	var ids []domain.UserID
	if err := f.Arg(0, &ids); err != nil {
		return err
	}
	s.room.ApplyModerators(ids)
	return nil
}

func (s *Session) onUpdateRoomAdmin(f protocol.Frame) error {
	if !s.IsAdmin() {
		return nil
	}
	var p protocol.RoomAdminPayload
	if err := f.Arg(0, &p); err != nil {
		return err
	}
	s.room.ReplaceBans(p.Bans)
	s.listener.OnBanListRefreshed(s.room.Bans())
	return nil
}
