package ws

import (
	"encoding/json"
	"testing"
)

func TestSendToUserReachesEveryConnection(t *testing.T) {
	h := NewHub()
	a1, a2, b := NewClient(1, "a"), NewClient(1, "a"), NewClient(2, "b")
	h.Register(a1)
	h.Register(a2)
	h.Register(b)

	h.SendToUser(1, map[string]string{"type": "notification"})

	for _, c := range []*Client{a1, a2} {
		select {
		case raw := <-c.Send:
			var got map[string]string
			if err := json.Unmarshal(raw, &got); err != nil || got["type"] != "notification" {
				t.Fatalf("unexpected payload %s (%v)", raw, err)
			}
		default:
			t.Fatal("connection of user 1 did not receive the payload")
		}
	}
	select {
	case <-b.Send:
		t.Fatal("user 2 received a payload meant for user 1")
	default:
	}
}

func TestCloseUnregistersAndStopsDelivery(t *testing.T) {
	h := NewHub()
	c := NewClient(5, "e")
	h.Register(c)
	if !h.IsConnected(5) || h.ClientCount() != 1 {
		t.Fatal("client not registered")
	}
	c.Close()
	c.Close()
	if h.IsConnected(5) || h.ClientCount() != 0 {
		t.Fatal("client still registered after Close")
	}
	if c.trySend([]byte("x")) {
		t.Fatal("send on closed client succeeded")
	}
	h.BroadcastAll("after close")
}
