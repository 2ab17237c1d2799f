package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notify-hub/internal/domain"
)

func TestNotificationPayload(t *testing.T) {
	n := domain.Notification{
		ID:        uuid.New(),
		UserID:    "user1",
		Message:   "hi",
		Status:    domain.StatusUnseen,
		CreatedAt: time.Now(),
	}

	payload := NotificationPayload(n)
	require.NotNil(t, payload)

	var frame OutboundFrame
	require.NoError(t, json.Unmarshal(payload, &frame))
	assert.Equal(t, EventNotification, frame.Event)

	var got domain.Notification
	require.NoError(t, json.Unmarshal(frame.Data, &got))
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, "hi", got.Message)
}

func TestUnseenCountPayload(t *testing.T) {
	payload := UnseenCountPayload(7)
	require.NotNil(t, payload)

	var frame OutboundFrame
	require.NoError(t, json.Unmarshal(payload, &frame))
	assert.Equal(t, EventUnseenCount, frame.Event)
	assert.JSONEq(t, `{"count":7}`, string(frame.Data))
}

func TestInboundFrameDecoding(t *testing.T) {
	var frame InboundFrame
	err := json.Unmarshal([]byte(`{"event":"connect_user","user_id":"user3"}`), &frame)

	require.NoError(t, err)
	assert.Equal(t, EventConnectUser, frame.Event)
	assert.Equal(t, "user3", frame.UserID)
}
