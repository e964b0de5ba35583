package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"alertcast/internal/core/logger"
	events "alertcast/internal/features/events/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const eventBufferSize = 64

// WSTransport owns the single websocket connection to the event hub. It
// reconnects forever with a fixed delay; transport errors never escape past
// the log. Teardown happens through context cancellation, which sends a
// normal-closure frame and suppresses reconnection.
type WSTransport struct {
	url       string
	delay     time.Duration
	dialer    *websocket.Dialer
	eventsOut chan events.Envelope
	log       *zap.Logger
}

// NewWSTransport creates a transport for the given server base URL
// (http/https, converted to ws/wss) and fixed reconnect delay.
func NewWSTransport(serverURL string, reconnectDelay time.Duration) (*WSTransport, error) {
	wsURL, err := WebSocketURL(serverURL)
	if err != nil {
		return nil, err
	}

	return &WSTransport{
		url:       wsURL,
		delay:     reconnectDelay,
		dialer:    websocket.DefaultDialer,
		eventsOut: make(chan events.Envelope, eventBufferSize),
		log:       logger.Named("transport"),
	}, nil
}

// WebSocketURL derives the /ws endpoint from an HTTP base URL
// (https -> wss, http -> ws).
func WebSocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Events returns the decoded envelope stream. Closed when Run returns.
func (t *WSTransport) Events() <-chan events.Envelope {
	return t.eventsOut
}

// Run drives the connect/read/reconnect loop until ctx is cancelled. There
// is never more than one live connection or one pending reconnect wait: the
// loop is strictly sequential.
func (t *WSTransport) Run(ctx context.Context) error {
	defer close(t.eventsOut)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if err := t.connectAndRead(ctx); err != nil {
			t.log.Warn("Connection lost", zap.Error(err))
		}

		if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(t.delay):
		}
	}
}

// connectAndRead dials once and pumps frames until the connection drops or
// the context is cancelled.
func (t *WSTransport) connectAndRead(ctx context.Context) error {
	conn, _, err := t.dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.url, err)
	}
	defer conn.Close()

	t.log.Info("Connected", zap.String("url", t.url))

	// Intentional teardown: send the distinguished close code and stop the
	// read loop without scheduling a reconnect.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(time.Second)
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "teardown"), deadline)
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		for _, ev := range events.ParseFrame(frame) {
			select {
			case t.eventsOut <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
