package http

import (
	"errors"
	"io"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/domain"
)

type handlers struct {
	bridge Bridge
	votes  Votes
	events Events
}

type roomStatus struct {
	State     domain.ConnState `json:"state"`
	SelfID    domain.UserID    `json:"self_id"`
	Admin     bool             `json:"admin"`
	Attempts  int              `json:"attempts"`
	Exhausted bool             `json:"exhausted"`
	Pair      domain.PairState `json:"pair"`
	Room      domain.RoomView  `json:"room"`
}

type targetRequest struct {
	UserID domain.UserID `json:"user_id" binding:"required"`
}

type moderatorRequest struct {
	UserID domain.UserID `json:"user_id" binding:"required"`
	Grant  bool          `json:"grant"`
}

type proposeRequest struct {
	Proposer       domain.UserID      `json:"proposer"`
	Action         domain.AdminAction `json:"action"`
	Required       int                `json:"required" binding:"gte=0,lte=50"`
	TimeoutSeconds int                `json:"timeout_seconds" binding:"gte=0,lte=3600"`
}

// statusFor maps the error taxonomy onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotAdmin):
		return nethttp.StatusForbidden
	case errors.Is(err, domain.ErrInvalidArgument):
		return nethttp.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownProposal):
		return nethttp.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return nethttp.StatusTooManyRequests
	case errors.Is(err, domain.ErrNotConnected),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrVoteExpired):
		return nethttp.StatusConflict
	case errors.Is(err, domain.ErrTransport),
		errors.Is(err, domain.ErrProtocol),
		errors.Is(err, domain.ErrReconnectExhausted):
		return nethttp.StatusBadGateway
	}
	return nethttp.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= nethttp.StatusInternalServerError {
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func done(c *gin.Context, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(nethttp.StatusAccepted)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(nethttp.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *handlers) health(c *gin.Context) {
	st := h.bridge.State()
	code := nethttp.StatusOK
	if st != domain.StateConnected {
		code = nethttp.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"state": st, "exhausted": h.bridge.Exhausted(), "subscribers": h.events.Len()})
}

func (h *handlers) room(c *gin.Context) {
	c.JSON(nethttp.StatusOK, roomStatus{
		State:     h.bridge.State(),
		SelfID:    h.bridge.SelfID(),
		Admin:     h.bridge.IsAdmin(),
		Attempts:  h.bridge.Attempts(),
		Exhausted: h.bridge.Exhausted(),
		Pair:      h.bridge.PairState(),
		Room:      h.bridge.Room(),
	})
}

func (h *handlers) stream(c *gin.Context) {
	id, ch, cancel := h.events.Subscribe(64)
	defer cancel()
	log.Info().Str("module", "adapters.http").Str("sub", string(id)).Msg("event stream opened")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(nethttp.StatusOK)
	c.Writer.Flush()
	c.Stream(func(io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
	log.Info().Str("module", "adapters.http").Str("sub", string(id)).Msg("event stream closed")
}

func (h *handlers) sendMessage(c *gin.Context) {
	var msg domain.OutboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		badRequest(c, err)
		return
	}
	done(c, h.bridge.SendChatMessage(msg))
}

func (h *handlers) refresh(c *gin.Context) {
	done(c, h.bridge.RefreshRoomSnapshot())
}

func (h *handlers) reconnect(c *gin.Context) {
	done(c, h.bridge.Reconnect(c.Request.Context()))
}

func (h *handlers) setSetting(c *gin.Context) {
	var s domain.AdminSetting
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, err)
		return
	}
	done(c, h.bridge.SetAdminSetting(s))
}

func (h *handlers) removeBan(c *gin.Context) {
	done(c, h.bridge.RemoveBan(domain.UserID(c.Param("id"))))
}

func (h *handlers) refreshBans(c *gin.Context) {
	done(c, h.bridge.RefreshBans())
}

func (h *handlers) transferOwner(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	done(c, h.bridge.RequestOwnershipTransfer(req.UserID))
}

func (h *handlers) setModerator(c *gin.Context) {
	var req moderatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	done(c, h.bridge.SetModerator(req.UserID, req.Grant))
}

func (h *handlers) pendingVotes(c *gin.Context) {
	c.JSON(nethttp.StatusOK, h.votes.Pending())
}

func (h *handlers) propose(c *gin.Context) {
	var req proposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	proposer := req.Proposer
	if proposer == "" {
		proposer = domain.UserID(c.GetString("client_token"))
	}
	p, err := h.votes.Propose(proposer, req.Action, req.Required, time.Duration(req.TimeoutSeconds)*time.Second)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(nethttp.StatusCreated, p)
}

func (h *handlers) getVote(c *gin.Context) {
	p, ok := h.votes.Get(domain.ProposalID(c.Param("id")))
	if !ok {
		c.JSON(nethttp.StatusNotFound, gin.H{"error": "unknown proposal"})
		return
	}
	c.JSON(nethttp.StatusOK, p)
}

func (h *handlers) react(c *gin.Context) {
	var r domain.Reaction
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, err)
		return
	}
	r.ProposalID = domain.ProposalID(c.Param("id"))
	p, err := h.votes.Approve(r)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, p)
}

func (h *handlers) cancelVote(c *gin.Context) {
	if err := h.votes.Cancel(domain.ProposalID(c.Param("id"))); err != nil {
		fail(c, err)
		return
	}
	c.Status(nethttp.StatusNoContent)
}

func (h *handlers) requestPair(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	done(c, h.bridge.RequestPairing(req.UserID))
}

func (h *handlers) leavePair(c *gin.Context) {
	done(c, h.bridge.LeavePair())
}
