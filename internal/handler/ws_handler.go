package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/config"
	"github.com/stemsi/portfolio-backend/internal/events"
	"github.com/stemsi/portfolio-backend/internal/middleware"
	"github.com/stemsi/portfolio-backend/internal/response"
	"github.com/stemsi/portfolio-backend/internal/service"
	ws "github.com/stemsi/portfolio-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams submission changes to the signed-in account.
type WSHandler struct {
	guard      *service.SessionGuard
	bus        events.Bus
	checkEvery time.Duration
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(guard *service.SessionGuard, bus events.Bus, cfg *config.Config, log zerolog.Logger) *WSHandler {
	checkEvery := cfg.SessionCheck
	if checkEvery <= 0 {
		checkEvery = time.Minute
	}
	return &WSHandler{
		guard:      guard,
		bus:        bus,
		checkEvery: checkEvery,
		log:        log.With().Str("component", "ws_handler").Logger(),
		upgrader:   buildUpgrader(cfg.AllowedOrigins),
	}
}

// ProjectFeed godoc
// WS /ws/projects?token=...
// Pushes submission events for the caller. Students receive changes to their
// own submissions, admins receive changes to submissions assigned to them.
// The session is re-checked periodically and the socket is closed once it
// stops being valid.
func (h *WSHandler) ProjectFeed(c *gin.Context) {
	token := middleware.ExtractToken(c)
	result := h.guard.Evaluate(c.Request.Context(), token, "")
	if !result.Valid() {
		status, code := middleware.Rejection(result.Reason, "")
		response.Fail(c, status, code)
		return
	}
	info := result.Claims.Info()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("account_id", info.AccountID).
		Str("role", string(info.Role)).
		Logger()

	ctx := c.Request.Context()
	sub, err := h.bus.Subscribe(ctx, config.CacheKey.SubmissionChannel(info.Email))
	if err != nil {
		wsLog.Error().Err(err).Msg("Event subscribe failed")
		ws.WriteError(conn, "event feed unavailable")
		return
	}
	defer sub.Close()

	wsLog.Info().Msg("Feed connected")

	// The reader owns conn reads; all writes stay on this goroutine.
	pings := make(chan struct{}, 1)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	ticker := time.NewTicker(h.checkEvery)
	defer ticker.Stop()

	for {
		select {
		case <-readerDone:
			wsLog.Debug().Msg("Feed closed by client")
			return
		case <-ctx.Done():
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case ev, ok := <-sub.Events():
			if !ok {
				ws.WriteError(conn, "event feed closed")
				return
			}
			if err := ws.WriteTyped(conn, ws.SubmissionResponse{Event: ws.EventSubmission, Data: ev}); err != nil {
				wsLog.Debug().Err(err).Msg("Feed write failed")
				return
			}
		case <-ticker.C:
			check := h.guard.Evaluate(ctx, token, info.Role)
			if check.Valid() {
				continue
			}
			wsLog.Info().Str("reason", string(check.Reason)).Msg("Session ended, closing feed")
			ws.WriteTyped(conn, ws.SessionInvalidResponse{Event: ws.EventSessionInvalid, Reason: string(check.Reason)})
			ws.ClosePolicy(conn, string(check.Reason))
			return
		}
	}
}
