package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

const (
	handshakeTimeout = 10 * time.Second
	dialTimeout      = 5 * time.Second
	writeTimeout     = 5 * time.Second

	// Keepalive for the JSON protocol, which has no application-level ping.
	keepaliveInterval = 25 * time.Second
	keepaliveTimeout  = 60 * time.Second
)

// ClientHeader carries the client session id on the WebSocket handshake.
const ClientHeader = "X-NDNC-Client"

// Config describes how to reach the push endpoint.
type Config struct {
	ServerURL       string // http(s) base URL of the automation server
	Protocol        string // models.PushProtocolSocketIO or models.PushProtocolJSON
	Path            string
	ClientID        string
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Logger          *slog.Logger
}

// Channel is a self-reconnecting push connection. Connect and Disconnect
// events mark the edges of each established connection; reconnect attempts
// are paced by exponential backoff.
type Channel struct {
	cfg    Config
	url    string
	dialer *websocket.Dialer
	logger *slog.Logger
}

// NewChannel validates cfg and prepares a channel. It does not dial.
func NewChannel(cfg Config) (*Channel, error) {
	if cfg.Protocol == "" {
		cfg.Protocol = models.PushProtocolSocketIO
	}
	if cfg.Protocol != models.PushProtocolSocketIO && cfg.Protocol != models.PushProtocolJSON {
		return nil, fmt.Errorf("unknown push protocol %q", cfg.Protocol)
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = time.Second
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		cfg.MaxInterval = cfg.InitialInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	wsURL, err := channelURL(cfg.ServerURL, cfg.Protocol, cfg.Path)
	if err != nil {
		return nil, err
	}

	return &Channel{
		cfg: cfg,
		url: wsURL,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
			NetDialContext:   (&net.Dialer{Timeout: dialTimeout}).DialContext,
		},
		logger: logger.With("component", "push"),
	}, nil
}

// URL returns the WebSocket URL the channel dials.
func (c *Channel) URL() string {
	return c.url
}

func channelURL(serverURL, protocol, path string) (string, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme", serverURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: missing host", serverURL)
	}

	if path == "" {
		if protocol == models.PushProtocolSocketIO {
			path = "/socket.io/"
		} else {
			path = "/ws"
		}
	}
	u = u.JoinPath(path)
	if protocol == models.PushProtocolSocketIO {
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		q := u.Query()
		q.Set("EIO", "4")
		q.Set("transport", "websocket")
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Run keeps the channel connected until ctx is cancelled, delivering every
// event to emit from a single goroutine. It returns ctx.Err().
func (c *Channel) Run(ctx context.Context, emit func(Event)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialInterval
	b.MaxInterval = c.cfg.MaxInterval
	b.MaxElapsedTime = 0
	b.Reset()

	for attempt := 1; ; attempt++ {
		err := c.session(ctx, emit, b)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := b.NextBackOff()
		c.logger.Debug("push channel down, retrying",
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		if !sleepWithContext(ctx, delay) {
			return ctx.Err()
		}
	}
}

// session runs one connection until it fails or ctx is cancelled.
func (c *Channel) session(ctx context.Context, emit func(Event), b backoff.BackOff) error {
	header := http.Header{}
	if c.cfg.ClientID != "" {
		header.Set(ClientHeader, c.cfg.ClientID)
	}

	conn, _, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.url, err)
	}
	defer conn.Close()

	// Unblock ReadMessage on cancellation.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	connected := false
	up := func() {
		connected = true
		b.Reset()
		emit(Connect{})
	}

	var readErr error
	if c.cfg.Protocol == models.PushProtocolJSON {
		up()
		readErr = c.readJSON(ctx, conn, emit)
	} else {
		readErr = c.readSocketIO(conn, emit, up)
	}

	if connected {
		if ctx.Err() != nil {
			readErr = ctx.Err()
		}
		emit(Disconnect{Err: readErr})
	}
	return readErr
}

func (c *Channel) readSocketIO(conn *websocket.Conn, emit func(Event), up func()) error {
	pingWait := keepaliveTimeout
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		f, err := decodeSocketIOFrame(data)
		if err != nil {
			c.logger.Debug("dropping malformed frame", "error", err)
			continue
		}

		switch f.kind {
		case frameOpen:
			if d := f.open.readTimeout(); d > 0 {
				pingWait = d
			}
			_ = conn.SetReadDeadline(time.Now().Add(pingWait))
			if err := writeText(conn, socketIOConnectFrame); err != nil {
				return err
			}
		case framePing:
			if err := writeText(conn, socketIOPongFrame); err != nil {
				return err
			}
			_ = conn.SetReadDeadline(time.Now().Add(pingWait))
		case frameConnectAck:
			up()
		case frameConnectError:
			return fmt.Errorf("connection rejected: %s", f.text)
		case frameClose:
			return errors.New(f.text)
		case frameEvent:
			c.deliver(f, emit)
		}
	}
}

func (c *Channel) readJSON(ctx context.Context, conn *websocket.Conn, emit func(Event)) error {
	_ = conn.SetReadDeadline(time.Now().Add(keepaliveTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(keepaliveTimeout))
	})

	pingCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go keepalive(pingCtx, conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(keepaliveTimeout))

		f, err := decodeJSONFrame(data)
		if err != nil {
			c.logger.Debug("dropping malformed frame", "error", err)
			continue
		}
		c.deliver(f, emit)
	}
}

func (c *Channel) deliver(f frame, emit func(Event)) {
	if f.name == EventConnect || f.name == EventDisconnect {
		c.logger.Debug("ignoring reserved event name from server", "event", f.name)
		return
	}
	ev, err := Decode(f.name, f.data)
	if err != nil {
		c.logger.Debug("dropping undecodable event", "event", f.name, "error", err)
		return
	}
	emit(ev)
}

// keepalive sends WebSocket pings; WriteControl is safe alongside the reader.
func keepalive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func writeText(conn *websocket.Conn, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func sleepWithContext(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
