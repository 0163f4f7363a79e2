package session

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/domain"
	"github.com/dkeye/CourtBridge/internal/protocol"
)

// send is the single outbound entry point. Frames are queued on the
// connection's writer; nothing else touches the socket after the handshake.
func (s *Session) send(f protocol.Frame) error {
	s.mu.RLock()
	c, st := s.conn, s.state
	s.mu.RUnlock()
	if c == nil || st != domain.StateConnected {
		return domain.ErrNotConnected
	}
	if err := c.TrySend(f); err != nil {
		return fmt.Errorf("send %s: %w", f.Name, err)
	}
	return nil
}

func (s *Session) emit(name string, args ...any) error {
	f, err := protocol.Event(name, args...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.send(f)
}

func (s *Session) requireConnected() error {
	if s.State() != domain.StateConnected {
		return domain.ErrNotConnected
	}
	return nil
}

func (s *Session) requireAdmin() error {
	if !s.IsAdmin() {
		return domain.ErrNotAdmin
	}
	return nil
}

// displayFor picks the courtroom name and text for a relayed line. Names that
// do not fit fall back to the base identity with the speaker moved into the
// text.
func (s *Session) displayFor(speaker, text string) (string, string) {
	id := s.opts.Identity
	if speaker == "" {
		return id.BaseName, text
	}
	if name := id.Compose(speaker); domain.NameFits(name) {
		return name, text
	}
	return id.BaseName, speaker + ": " + text
}

// SendChatMessage relays one line. The username is changed before every
// message so interleaved speakers never inherit each other's name.
func (s *Session) SendChatMessage(msg domain.OutboundMessage) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	if msg.Text == "" {
		return fmt.Errorf("%w: empty message", domain.ErrInvalidArgument)
	}
	name, text := s.displayFor(msg.SpeakerDisplayName, msg.Text)

	body := protocol.MessageBody{Text: text, CharacterID: msg.CharacterID, PoseID: msg.PoseID}
	if body.CharacterID == 0 {
		body.CharacterID = s.opts.Identity.CharacterID
	}
	if body.PoseID == 0 {
		body.PoseID = s.opts.Identity.PoseID
	}

	if err := s.emit(protocol.EvChangeUsername, protocol.ChangeUsernamePayload{Username: name}); err != nil {
		return fmt.Errorf("change username: %w", err)
	}
	if err := s.emit(protocol.EvMessage, body); err != nil {
		return err
	}
	log.Debug().Str("module", "session").Str("as", name).Msg("message relayed")
	return nil
}

func (s *Session) SetAdminSetting(setting domain.AdminSetting) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	payload, err := setting.Payload()
	if err != nil {
		return err
	}
	if err := s.emit(protocol.EvUpdateRoomAdmin, payload); err != nil {
		return err
	}
	log.Info().Str("module", "session").Str("setting", string(setting.Kind)).Msg("room setting sent")
	return nil
}

func (s *Session) RemoveBan(id domain.UserID) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: empty user id", domain.ErrInvalidArgument)
	}
	return s.emit(protocol.EvRemoveBan, protocol.TargetPayload{UserID: id})
}

func (s *Session) RequestOwnershipTransfer(target domain.UserID) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if !s.room.Has(target) {
		return fmt.Errorf("%w: %q is not in the room", domain.ErrInvalidArgument, target)
	}
	return s.emit(protocol.EvOwnerTransfer, protocol.TargetPayload{UserID: target})
}

// SetModerator sends the full moderator list with target added or removed.
// The local set changes only when the courtroom echoes update_mods.
func (s *Session) SetModerator(target domain.UserID, grant bool) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if !s.room.Has(target) {
		return fmt.Errorf("%w: %q is not in the room", domain.ErrInvalidArgument, target)
	}
	mods := s.room.Moderators()
	has := s.room.IsModerator(target)
	switch {
	case grant && !has:
		mods = append(mods, target)
	case !grant && has:
		mods = slices.DeleteFunc(mods, func(id domain.UserID) bool { return id == target })
	default:
		return nil
	}
	return s.emit(protocol.EvUpdateMods, protocol.ModsPayload{Mods: mods})
}

// RefreshBans asks for admin room data; the ban list arrives as
// update_room_admin.
func (s *Session) RefreshBans() error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	return s.emit(protocol.EvUpdateRoom)
}

func (s *Session) RefreshRoomSnapshot() error {
	return s.emit(protocol.EvGetRoom)
}

func (s *Session) RequestPairing(target domain.UserID) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	if target == "" || target == s.SelfID() || !s.room.Has(target) {
		return fmt.Errorf("%w: cannot pair with %q", domain.ErrInvalidArgument, target)
	}
	if err := s.pair.Request(target); err != nil {
		return err
	}
	if err := s.emit(protocol.EvCreatePair, protocol.PairRequestPayload{TargetID: target}); err != nil {
		s.pair.Withdraw(target)
		return err
	}
	return nil
}

func (s *Session) LeavePair() error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	prev, err := s.pair.Leave()
	if err != nil {
		return err
	}
	log.Info().Str("module", "session").Str("partner", string(prev.Partner)).Msg("leaving pair")
	return s.emit(protocol.EvLeavePair)
}

// ExecuteAdminAction runs an approved action through the matching gateway
// call.
func (s *Session) ExecuteAdminAction(a domain.AdminAction) error {
	switch a.Kind {
	case domain.ActionSetting:
		return s.SetAdminSetting(a.Setting)
	case domain.ActionRemoveBan:
		return s.RemoveBan(a.Target)
	case domain.ActionTransferOwner:
		return s.RequestOwnershipTransfer(a.Target)
	case domain.ActionSetModerator:
		return s.SetModerator(a.Target, a.Grant)
	}
	return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidArgument, a.Kind)
}
