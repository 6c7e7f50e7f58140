package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan TokenTransferEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	mainBus.Subscribe(EventTypeTokenTransfer, func(ctx context.Context, event Event) {
		defer wg.Done()
		if transfer, ok := event.(TokenTransferEvent); ok {
			select {
			case eventReceived <- transfer:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected TokenTransferEvent, got %T", event)
		}
	})

	testEvent := TokenTransferEvent{
		FromAddress: "staker1",
		ToAddress:   "club-staking",
		Amount:      100000,
	}

	// Publish to the transactional bus, then flush as a commit would
	transactionalBus.Publish(testEvent)
	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	wg.Wait()

	select {
	case received := <-eventReceived:
		assert.Equal(t, testEvent, received)
	default:
		t.Fatal("no event received")
	}
}

func TestTransactionalBus_DiscardDropsPending(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	delivered := make(chan Event, 1)
	mainBus.Subscribe(EventTypeFeeRouted, func(ctx context.Context, event Event) {
		delivered <- event
	})

	transactionalBus.Publish(FeeRoutedEvent{PayerAddress: "staker1", WalletAddress: "platform-fees", Amount: 1550})
	transactionalBus.Discard()

	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	select {
	case <-delivered:
		t.Fatal("discarded event was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBus_HandlerPanicDoesNotPropagate(t *testing.T) {
	bus := NewBus()
	done := make(chan struct{})

	bus.Subscribe(EventTypeOwnershipChanged, func(ctx context.Context, event Event) {
		defer close(done)
		panic("handler failure")
	})

	bus.Emit(context.Background(), OwnershipChangedEvent{ClubName: "CLUB001"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}
