package domain

import "fmt"

type ActionKind string

const (
	ActionSetting       ActionKind = "setting"
	ActionRemoveBan     ActionKind = "remove_ban"
	ActionTransferOwner ActionKind = "owner_transfer"
	ActionSetModerator  ActionKind = "set_moderator"
)

// AdminAction is an administrative change that may be put to a vote.
type AdminAction struct {
	Kind    ActionKind   `json:"kind" binding:"required"`
	Setting AdminSetting `json:"setting"`
	Target  UserID       `json:"target,omitempty"`
	Grant   bool         `json:"grant,omitempty"`
}

func (a AdminAction) Validate() error {
	switch a.Kind {
	case ActionSetting:
		_, err := a.Setting.Payload()
		return err
	case ActionRemoveBan, ActionTransferOwner, ActionSetModerator:
		if a.Target == "" {
			return fmt.Errorf("%w: %s needs a target", ErrInvalidArgument, a.Kind)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown action %q", ErrInvalidArgument, a.Kind)
}

func (a AdminAction) String() string {
	switch a.Kind {
	case ActionSetting:
		return fmt.Sprintf("set %s to %q", a.Setting.Kind, a.Setting.Value)
	case ActionRemoveBan:
		return fmt.Sprintf("unban %s", a.Target)
	case ActionTransferOwner:
		return fmt.Sprintf("transfer ownership to %s", a.Target)
	case ActionSetModerator:
		if a.Grant {
			return fmt.Sprintf("make %s moderator", a.Target)
		}
		return fmt.Sprintf("remove moderator %s", a.Target)
	}
	return string(a.Kind)
}
