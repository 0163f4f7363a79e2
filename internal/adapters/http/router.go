package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/app"
	"github.com/dkeye/CourtBridge/internal/config"
	"github.com/dkeye/CourtBridge/internal/domain"
)

// Bridge is the session surface the control API drives.
type Bridge interface {
	State() domain.ConnState
	SelfID() domain.UserID
	IsAdmin() bool
	Attempts() int
	Exhausted() bool
	Room() domain.RoomView
	PairState() domain.PairState

	SendChatMessage(msg domain.OutboundMessage) error
	SetAdminSetting(s domain.AdminSetting) error
	RemoveBan(id domain.UserID) error
	RequestOwnershipTransfer(target domain.UserID) error
	SetModerator(target domain.UserID, grant bool) error
	RefreshBans() error
	RefreshRoomSnapshot() error
	RequestPairing(target domain.UserID) error
	LeavePair() error
	Reconnect(ctx context.Context) error
}

type Votes interface {
	Propose(proposer domain.UserID, action domain.AdminAction, required int, timeout time.Duration) (domain.Proposal, error)
	Approve(r domain.Reaction) (domain.Proposal, error)
	Cancel(id domain.ProposalID) error
	Get(id domain.ProposalID) (domain.Proposal, bool)
	Pending() []domain.Proposal
}

type Events interface {
	Subscribe(buffer int) (app.SubscriberID, <-chan app.Event, func())
	Len() int
}

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

// ClientTokenMiddleware gives every operator a stable id kept in the cookie
// session. It is the default proposer for votes.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get("ct").(string)
		if token == "" {
			token = genClientToken()
			session.Set("ct", token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("session save failed")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// TokenAuthMiddleware requires "Authorization: Bearer <token>" when token is
// set.
func TokenAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("Authorization") == "Bearer "+token {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
}

func SetupRouter(cfg *config.Config, bridge Bridge, votes Votes, events Events) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	secret := cfg.Secret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn().Str("module", "adapters.http").Msg("no secret configured, operator sessions will not survive restarts")
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("CourtBridgeSessions", store))
	r.Use(ClientTokenMiddleware())

	h := &handlers{bridge: bridge, votes: votes, events: events}

	r.GET("/healthz", h.health)

	api := r.Group("/api", TokenAuthMiddleware(cfg.APIToken))
	api.GET("/room", h.room)
	api.GET("/events", h.stream)
	api.POST("/messages", h.sendMessage)
	api.POST("/refresh", h.refresh)
	api.POST("/reconnect", h.reconnect)

	admin := api.Group("/admin")
	admin.POST("/settings", h.setSetting)
	admin.DELETE("/bans/:id", h.removeBan)
	admin.POST("/bans/refresh", h.refreshBans)
	admin.POST("/owner", h.transferOwner)
	admin.POST("/mods", h.setModerator)

	api.GET("/votes", h.pendingVotes)
	api.POST("/votes", h.propose)
	api.GET("/votes/:id", h.getVote)
	api.POST("/votes/:id/reactions", h.react)
	api.DELETE("/votes/:id", h.cancelVote)

	api.POST("/pair", h.requestPair)
	api.DELETE("/pair", h.leavePair)

	log.Info().Str("module", "adapters.http").Bool("auth", cfg.APIToken != "").Msg("router setup")
	return r
}
