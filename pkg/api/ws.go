package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"netcheck/pkg/model"
	"netcheck/pkg/store"
)

const (
	appendTimeout = 10 * time.Second
	// MaxMessageSize bounds one device frame; a full checklist is a few KiB.
	MaxMessageSize = 1 << 20
	feedReadLimit  = 512
)

// feedConn serialises writes to one feed subscriber.
type feedConn struct {
	mu sync.Mutex
	c  *websocket.Conn
}

func (f *feedConn) write(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.c.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return f.c.WriteJSON(v)
}

// WSHub accepts checklist submissions from devices and fans stored
// submissions out to feed subscribers (dashboards).
type WSHub struct {
	upgrader    websocket.Upgrader
	submissions store.SubmissionStore
	log         *zap.Logger
	mu          sync.RWMutex
	devices     map[string]*websocket.Conn
	feed        map[*feedConn]struct{}
}

func NewWSHub(submissions store.SubmissionStore, log *zap.Logger) *WSHub {
	return &WSHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		submissions: submissions,
		log:         log,
		devices:     map[string]*websocket.Conn{},
		feed:        map[*feedConn]struct{}{},
	}
}

// Connected reports whether a device currently holds a connection.
func (h *WSHub) Connected(deviceID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.devices[deviceID]
	return ok
}

// FeedSubscribers is the number of connected feed subscribers.
func (h *WSHub) FeedSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.feed)
}

// HandleDeviceWS upgrades and serves a device connection; expects ?deviceId=xxx
func (h *WSHub) HandleDeviceWS(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("deviceId")
	if deviceID == "" {
		writeMessage(w, http.StatusBadRequest, "deviceId required")
		return
	}
	username := ""
	if claims, ok := ClaimsFrom(r.Context()); ok {
		username = claims.Username
	}
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.String("device", deviceID), zap.Error(err))
		return
	}
	h.mu.Lock()
	if old, ok := h.devices[deviceID]; ok {
		_ = old.Close()
	}
	h.devices[deviceID] = c
	h.mu.Unlock()
	h.log.Info("device connected", zap.String("device", deviceID), zap.String("user", username))
	go h.readLoop(deviceID, username, c)
}

func (h *WSHub) readLoop(deviceID, username string, c *websocket.Conn) {
	defer func() {
		_ = c.Close()
		h.mu.Lock()
		if h.devices[deviceID] == c {
			delete(h.devices, deviceID)
		}
		h.mu.Unlock()
		h.log.Info("device disconnected", zap.String("device", deviceID))
	}()
	c.SetReadLimit(MaxMessageSize)
	for {
		var msg WSMessage
		if err := c.ReadJSON(&msg); err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				h.log.Warn("device frame too large", zap.String("device", deviceID))
			}
			return
		}
		reply := h.accept(deviceID, username, msg)
		if err := c.WriteJSON(reply); err != nil {
			h.log.Warn("ws reply failed", zap.String("device", deviceID), zap.Error(err))
			return
		}
	}
}

func (h *WSHub) accept(deviceID, username string, msg WSMessage) WSMessage {
	if msg.Type != TypeSubmission {
		return WSMessage{Type: TypeError, Message: "unsupported message type " + msg.Type}
	}
	if len(msg.Entries) == 0 {
		return WSMessage{Type: TypeError, Message: "submission has no entries"}
	}
	sub := model.Submission{
		ID:         uuid.NewString(),
		Username:   username,
		DeviceID:   deviceID,
		ReceivedAt: time.Now().UTC(),
		Entries:    model.NewSubmissionEntries(msg.Entries),
	}
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	if err := h.submissions.Append(ctx, sub); err != nil {
		h.log.Error("store submission failed", zap.String("device", deviceID), zap.Error(err))
		return WSMessage{Type: TypeError, Message: "failed to store submission"}
	}
	h.log.Info("submission stored",
		zap.String("id", sub.ID),
		zap.String("device", deviceID),
		zap.Int("entries", len(sub.Entries)))
	h.fanout(sub)
	return WSMessage{Type: TypeAck, ID: sub.ID, DeviceID: deviceID}
}

// HandleFeedWS subscribes a dashboard to newly stored submissions.
func (h *WSHub) HandleFeedWS(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	fc := &feedConn{c: c}
	h.mu.Lock()
	h.feed[fc] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("feed subscriber connected")
	go h.feedLoop(fc)
}

func (h *WSHub) fanout(sub model.Submission) {
	h.mu.RLock()
	subs := make([]*feedConn, 0, len(h.feed))
	for fc := range h.feed {
		subs = append(subs, fc)
	}
	h.mu.RUnlock()
	for _, fc := range subs {
		if err := fc.write(sub); err != nil {
			go h.closeFeed(fc)
		}
	}
}

func (h *WSHub) feedLoop(fc *feedConn) {
	defer h.closeFeed(fc)
	fc.c.SetReadLimit(feedReadLimit)
	for {
		if _, _, err := fc.c.NextReader(); err != nil {
			return
		}
	}
}

func (h *WSHub) closeFeed(fc *feedConn) {
	_ = fc.c.Close()
	h.mu.Lock()
	delete(h.feed, fc)
	h.mu.Unlock()
}
