// Package app fans session and vote events out to operator-facing
// subscribers.
package app

import (
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/clock"
	"github.com/dkeye/CourtBridge/internal/core"
	"github.com/dkeye/CourtBridge/internal/domain"
)

var (
	_ core.Listener  = (*Hub)(nil)
	_ core.Announcer = (*Hub)(nil)
)

type EventType string

const (
	EvChatMessage        EventType = "chat_message"
	EvUserJoined         EventType = "user_joined"
	EvUserLeft           EventType = "user_left"
	EvUserRenamed        EventType = "user_renamed"
	EvAdminStatus        EventType = "admin_status"
	EvBanList            EventType = "ban_list"
	EvPairingAccepted    EventType = "pairing_accepted"
	EvPairingDeclined    EventType = "pairing_declined"
	EvEvidenceAdded      EventType = "evidence_added"
	EvReconnected        EventType = "reconnected"
	EvReconnectExhausted EventType = "reconnect_exhausted"
	EvProposalOpened     EventType = "proposal_opened"
	EvProposalCommitted  EventType = "proposal_committed"
	EvProposalExpired    EventType = "proposal_expired"
)

type Event struct {
	Type EventType `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

type SubscriberID string

// PublishResult reports delivery stats/backpressure for one event.
type PublishResult struct {
	SentTo  int
	Dropped []SubscriberID
}

type subscriber struct {
	ch     chan Event
	missed int
}

// Hub is a threadsafe fan-out. Publish never blocks; slow subscribers are
// handled by the Policy.
type Hub struct {
	mu     sync.RWMutex
	subs   map[SubscriberID]*subscriber
	policy Policy
	clock  clock.Clock
}

func NewHub(policy Policy, c clock.Clock) *Hub {
	if policy == nil {
		policy = SimplePolicy{}
	}
	if c == nil {
		c = clock.Real()
	}
	return &Hub{
		subs:   make(map[SubscriberID]*subscriber),
		policy: policy,
		clock:  c,
	}
}

// Subscribe registers a subscriber. The channel is closed when the
// subscriber is kicked or cancel is called.
func (h *Hub) Subscribe(buffer int) (SubscriberID, <-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	id := SubscriberID(uuid.NewString())
	sub := &subscriber{ch: make(chan Event, buffer)}

	h.mu.Lock()
	h.subs[id] = sub
	n := len(h.subs)
	h.mu.Unlock()

	log.Info().Str("module", "app.hub").Str("sub", string(id)).Int("subscribers", n).Msg("subscriber added")
	return id, sub.ch, func() { h.remove(id) }
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Publish(typ EventType, data any) PublishResult {
	ev := Event{Type: typ, At: h.clock.Now(), Data: data}

	h.mu.Lock()
	res := PublishResult{}
	for id, sub := range h.subs {
		select {
		case sub.ch <- ev:
			sub.missed = 0
			res.SentTo++
		default:
			sub.missed++
			res.Dropped = append(res.Dropped, id)
		}
	}
	missed := make(map[SubscriberID]int, len(res.Dropped))
	for _, id := range res.Dropped {
		missed[id] = h.subs[id].missed
	}
	h.mu.Unlock()

	log.Debug().Str("module", "app.hub").Str("event", string(typ)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("publish result")

	for _, id := range res.Dropped {
		switch h.policy.OnBackPressure(id, missed[id]) {
		case KickSubscriber:
			log.Warn().Str("module", "app.hub").Str("sub", string(id)).Msg("slow subscriber kicked")
			h.remove(id)
		case DropEvent, NoAction:
		}
	}
	return res
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		close(sub.ch)
		delete(h.subs, id)
	}
}

func (h *Hub) remove(id SubscriberID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		close(sub.ch)
		delete(h.subs, id)
	}
}

// core.Listener

func (h *Hub) OnChatMessage(msg domain.ChatMessage) { h.Publish(EvChatMessage, msg) }
func (h *Hub) OnUserJoined(u domain.RoomUser)       { h.Publish(EvUserJoined, u) }
func (h *Hub) OnUserLeft(u domain.RoomUser)         { h.Publish(EvUserLeft, u) }

func (h *Hub) OnUserRenamed(id domain.UserID, oldName, newName string) {
	h.Publish(EvUserRenamed, map[string]any{"id": id, "old": oldName, "new": newName})
}

func (h *Hub) OnAdminStatusChanged(admin bool) {
	log.Info().Str("module", "app.hub").Bool("admin", admin).Msg("admin status changed")
	h.Publish(EvAdminStatus, map[string]bool{"admin": admin})
}

func (h *Hub) OnBanListRefreshed(bans []domain.BanRecord) { h.Publish(EvBanList, bans) }
func (h *Hub) OnPairingAccepted(p domain.UserID)          { h.Publish(EvPairingAccepted, map[string]domain.UserID{"partner": p}) }
func (h *Hub) OnPairingDeclined(p domain.UserID)          { h.Publish(EvPairingDeclined, map[string]domain.UserID{"partner": p}) }
func (h *Hub) OnEvidenceAdded(payload json.RawMessage)    { h.Publish(EvEvidenceAdded, payload) }
func (h *Hub) OnReconnected()                             { h.Publish(EvReconnected, nil) }

func (h *Hub) OnReconnectExhausted(err error) {
	h.Publish(EvReconnectExhausted, map[string]string{"error": err.Error()})
}

// core.Announcer

func (h *Hub) ProposalOpened(p domain.Proposal) { h.Publish(EvProposalOpened, p) }

func (h *Hub) ProposalCommitted(p domain.Proposal, _ error) {
	h.Publish(EvProposalCommitted, p)
}

func (h *Hub) ProposalExpired(p domain.Proposal, _ error) {
	h.Publish(EvProposalExpired, p)
}
