package protocol

// Inbound event names.
const (
	EvMessage         = "message"
	EvUpdateRoom      = "update_room"
	EvMe              = "me"
	EvUserJoined      = "user_joined"
	EvUserLeft        = "user_left"
	EvUpdateUser      = "update_user"
	EvCreatePair      = "create_pair"
	EvOwnerTransfer   = "owner_transfer"
	EvUpdateMods      = "update_mods"
	EvUpdateRoomAdmin = "update_room_admin"
	EvAddEvidence     = "add_evidence"
)

// Outbound-only event names. Outbound also reuses me, get_room, message,
// update_room, update_room_admin, update_mods, owner_transfer and create_pair.
const (
	EvGetRoom        = "get_room"
	EvChangeUsername = "change_username"
	EvRemoveBan      = "remove_ban"
	EvRespondToPair  = "respond_to_pair"
	EvLeavePair      = "leave_pair"
)
