package ws

import (
	"encoding/json"

	"notify-hub/internal/domain"
)

// Inbound frame events, mirroring the client protocol.
const (
	EventConnectUser    = "connect_user"
	EventDisconnectUser = "disconnect_user"
)

// Outbound frame events.
const (
	EventNotification = "notification"
	EventUnseenCount  = "unseen_count"
)

// InboundFrame is a message sent by a client over the socket. A single
// socket may serve several logical users in sequence; identity travels
// in the frame, not the connection.
type InboundFrame struct {
	Event  string `json:"event"`
	UserID string `json:"user_id"`
}

type OutboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func marshalFrame(event string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	payload, err := json.Marshal(OutboundFrame{Event: event, Data: raw})
	if err != nil {
		return nil
	}
	return payload
}

// NotificationPayload encodes a live push for one notification.
func NotificationPayload(n domain.Notification) []byte {
	return marshalFrame(EventNotification, n)
}

// UnseenCountPayload encodes the badge count pushed on connect.
func UnseenCountPayload(count int64) []byte {
	return marshalFrame(EventUnseenCount, map[string]int64{"count": count})
}
