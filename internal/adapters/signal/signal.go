package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/interview/internal/app"
	"github.com/dkeye/interview/internal/app/orch"
	"github.com/dkeye/interview/internal/core"
	"github.com/dkeye/interview/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options tune the websocket transport.
type Options struct {
	ReadLimit    int64
	PingPeriod   time.Duration
	PongWait     time.Duration
	WriteWait    time.Duration
	SendBuffer   int
	RateLimit    int
	RateInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32768
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 5 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	return o
}

type SignalWSController struct {
	Orch *orch.Orchestrator

	opts     Options
	limiter  *RateLimiter
	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	opts = opts.withDefaults()
	return &SignalWSController{
		Orch:    o,
		opts:    opts,
		limiter: NewRateLimiter(opts.RateLimit, opts.RateInterval),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// WsSignalConn implements core.SignalConnection over a gorilla websocket.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and serves the connection until it is lost.
// The client token cookie becomes the default external user id.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.Must(uuid.NewV7()).String())
	token := c.GetString("client_token")
	username := c.Query("username")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", token).Msg("new WS connection")

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}

	user, err := domain.NewUser(domain.UserID(token), username)
	if err != nil {
		user, _ = domain.NewUser(domain.UserID(token), "")
	}
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Connect(&app.Connection{
		SID:    sid,
		User:   *user,
		Signal: conn,
		Cancel: cancel,
	})
	ctl.serve(ctx, cancel, sid, conn)
}

// serve runs both pumps; whichever exits first takes the other one down, then
// the connection goes through the disconnect cleanup exactly once.
func (ctl *SignalWSController) serve(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, conn *WsSignalConn) {
	defer func() {
		ctl.Orch.OnDisconnect(sid)
		ctl.limiter.Forget(sid)
		conn.Close()
		cancel()
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("connection closed")
	}()

	var eg errgroup.Group
	eg.Go(func() error {
		defer cancel()
		return ctl.writePump(ctx, sid, conn)
	})
	eg.Go(func() error {
		defer cancel()
		return ctl.readPump(ctx, sid, conn)
	})
	if err := eg.Wait(); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("pumps stopped")
	}
}
