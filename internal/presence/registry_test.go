package presence_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"notify-hub/internal/presence"
)

type fakeHandle struct {
	name string
}

func (f *fakeHandle) Send(payload []byte) error { return nil }

func TestRegistry_ConnectDisconnect(t *testing.T) {
	r := presence.NewRegistry()
	h := &fakeHandle{name: "a"}

	assert.False(t, r.Reachable("user1"))

	r.Connect("user1", h)
	assert.True(t, r.Reachable("user1"))

	got, ok := r.HandleFor("user1")
	assert.True(t, ok)
	assert.Same(t, h, got)

	r.Disconnect("user1")
	assert.False(t, r.Reachable("user1"))

	_, ok = r.HandleFor("user1")
	assert.False(t, ok)
}

func TestRegistry_DisconnectAbsentIsNoop(t *testing.T) {
	r := presence.NewRegistry()
	r.Disconnect("ghost")
	assert.False(t, r.Reachable("ghost"))
}

func TestRegistry_LastConnectionWins(t *testing.T) {
	r := presence.NewRegistry()
	old := &fakeHandle{name: "old"}
	fresh := &fakeHandle{name: "fresh"}

	r.Connect("user1", old)
	r.Connect("user1", fresh)

	got, ok := r.HandleFor("user1")
	assert.True(t, ok)
	assert.Same(t, fresh, got)

	// Dropping the superseded handle must not knock the user offline.
	r.DisconnectHandle(old)
	assert.True(t, r.Reachable("user1"))

	r.DisconnectHandle(fresh)
	assert.False(t, r.Reachable("user1"))
}

func TestRegistry_DisconnectHandle(t *testing.T) {
	r := presence.NewRegistry()
	h := &fakeHandle{name: "a"}

	r.Connect("user1", h)
	r.DisconnectHandle(h)
	assert.False(t, r.Reachable("user1"))

	// Unknown handle is a no-op.
	r.DisconnectHandle(&fakeHandle{name: "stranger"})
}

func TestRegistry_ReachableReflectsMostRecentEvent(t *testing.T) {
	r := presence.NewRegistry()
	h := &fakeHandle{name: "a"}

	events := []struct {
		connect bool
		want    bool
	}{
		{true, true},
		{false, false},
		{false, false},
		{true, true},
		{true, true},
		{false, false},
	}

	for i, ev := range events {
		if ev.connect {
			r.Connect("user1", h)
		} else {
			r.Disconnect("user1")
		}
		assert.Equal(t, ev.want, r.Reachable("user1"), "event %d", i)
	}
}

func TestRegistry_Online(t *testing.T) {
	r := presence.NewRegistry()
	r.Connect("a", &fakeHandle{name: "a"})
	r.Connect("b", &fakeHandle{name: "b"})
	r.Disconnect("a")

	assert.Equal(t, []string{"b"}, r.Online())
}

func TestRegistry_ConcurrentChurn(t *testing.T) {
	r := presence.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user%d", i%4)
			h := &fakeHandle{name: userID}
			for j := 0; j < 200; j++ {
				r.Connect(userID, h)
				r.Reachable(userID)
				r.HandleFor(userID)
				if j%3 == 0 {
					r.DisconnectHandle(h)
				} else {
					r.Disconnect(userID)
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		assert.False(t, r.Reachable(fmt.Sprintf("user%d", i)))
	}
}
