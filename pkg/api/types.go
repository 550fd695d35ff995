package api

import "netcheck/pkg/model"

// Message types exchanged on the submission websocket.
const (
	TypeSubmission = "submission"
	TypeAck        = "ack"
	TypeError      = "error"
)

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse answers a login. Failures carry only Message.
type LoginResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

// WSMessage is the envelope for device<->controller submission traffic.
type WSMessage struct {
	Type     string        `json:"type"`               // submission / ack / error
	ID       string        `json:"id,omitempty"`       // submission id, set by the controller
	DeviceID string        `json:"deviceId,omitempty"` // source device
	Entries  []model.Entry `json:"entries,omitempty"`
	Message  string        `json:"message,omitempty"`
}
