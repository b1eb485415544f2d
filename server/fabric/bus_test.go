package fabric

import "testing"

func TestBusPublishDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Publish(Shutdown{})

	select {
	case <-a:
	default:
		t.Fatalf("expected subscriber a to receive the broadcast")
	}
	select {
	case <-b:
	default:
		t.Fatalf("expected subscriber b to receive the broadcast")
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	// The channel is closed on unsubscribe; receiving from it should return
	// the zero value with ok=false rather than block.
	_, ok := <-ch
	if ok {
		t.Fatalf("expected channel to be closed after Unsubscribe")
	}
}

func TestServerInboxSendRecv(t *testing.T) {
	inbox := NewServerInbox(1)
	inbox.Send(PlayerLeft{})
	msg := <-inbox.Recv()
	if _, ok := msg.(PlayerLeft); !ok {
		t.Fatalf("Recv() = %T, want PlayerLeft", msg)
	}
}

func TestPrivateInboxSendRecv(t *testing.T) {
	inbox := NewPrivateInbox(1)
	inbox.Send(PlayerEnterPlot{})
	msg := <-inbox.Recv()
	if _, ok := msg.(PlayerEnterPlot); !ok {
		t.Fatalf("Recv() = %T, want PlayerEnterPlot", msg)
	}
}
