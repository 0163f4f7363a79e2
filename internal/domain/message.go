package domain

// OutboundMessage is one relayed chat line. Built per relay, never stored.
type OutboundMessage struct {
	Text               string `json:"text" binding:"required"`
	CharacterID        int    `json:"characterId"`
	PoseID             int    `json:"poseId"`
	SpeakerDisplayName string `json:"speaker" binding:"required"`
}

// ChatMessage is a chat line received from the courtroom.
type ChatMessage struct {
	SpeakerID   UserID `json:"speaker_id"`
	SpeakerName string `json:"speaker_name"`
	Text        string `json:"text"`
}
