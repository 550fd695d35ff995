// Package relay pushes locally saved checklists to the controller over its
// submission websocket.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"netcheck/pkg/api"
	"netcheck/pkg/model"
	"netcheck/pkg/version"
)

const defaultWait = 15 * time.Second

var (
	// ErrRejected is matched when the controller answers with an error message.
	ErrRejected = errors.New("controller rejected submission")
	errClosed   = errors.New("connection closed")
)

// Error reports a failed relay step.
type Error struct {
	Op  string // dial / send / receive / reject
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("relay %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Client holds a single websocket connection to the controller.
type Client struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	endpoint string
	deviceID string
	log      *zap.Logger
}

// Endpoint turns the controller base URL into the submission websocket URL.
func Endpoint(controller, deviceID string) (string, error) {
	u, err := url.Parse(controller)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported controller scheme %q", u.Scheme)
	}
	u.Path = "/api/v1/ws/submissions"
	q := u.Query()
	q.Set("deviceId", deviceID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dial connects to the controller with a session token.
func Dial(ctx context.Context, controller, token, deviceID string, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	endpoint, err := Endpoint(controller, deviceID)
	if err != nil {
		return nil, &Error{Op: "dial", Err: err}
	}
	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
			_ = resp.Body.Close()
		}
		log.Warn("ws dial failed", zap.String("url", endpoint), zap.Int("status", status), zap.Error(err))
		if status != 0 {
			err = fmt.Errorf("%w (status %d)", err, status)
		}
		return nil, &Error{Op: "dial", Err: err}
	}
	log.Debug("ws connected to controller", zap.String("url", endpoint))
	return &Client{conn: conn, endpoint: endpoint, deviceID: deviceID, log: log}, nil
}

// Publish sends one submission and waits for the controller's answer.
// It returns the submission id assigned by the controller.
func (c *Client) Publish(ctx context.Context, entries []model.Entry) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return "", &Error{Op: "send", Err: errClosed}
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultWait)
	}
	_ = c.conn.SetWriteDeadline(deadline)
	_ = c.conn.SetReadDeadline(deadline)

	msg := api.WSMessage{Type: api.TypeSubmission, DeviceID: c.deviceID, Entries: entries}
	if err := c.conn.WriteJSON(msg); err != nil {
		return "", &Error{Op: "send", Err: err}
	}
	var reply api.WSMessage
	if err := c.conn.ReadJSON(&reply); err != nil {
		return "", &Error{Op: "receive", Err: err}
	}
	switch reply.Type {
	case api.TypeAck:
		c.log.Info("submission relayed", zap.String("id", reply.ID), zap.Int("entries", len(entries)))
		return reply.ID, nil
	case api.TypeError:
		return "", &Error{Op: "reject", Err: fmt.Errorf("%w: %s", ErrRejected, reply.Message)}
	default:
		return "", &Error{Op: "receive", Err: fmt.Errorf("unexpected reply type %q", reply.Type)}
	}
}

// Close ends the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}
