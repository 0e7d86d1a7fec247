package cart_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/pos-backend/internal/domain/cart"
)

func TestNotifier_DeliversInSubscriptionOrder(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	n := cart.NewNotifier(logger)

	var order []string
	n.Subscribe(func(cart.Event) { order = append(order, "first") })
	n.Subscribe(func(cart.Event) { order = append(order, "second") })
	n.Subscribe(func(cart.Event) { order = append(order, "third") })

	n.Publish(cart.Event{Kind: cart.EventClear})

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestNotifier_IsolatesPanickingListener(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := cart.NewNotifier(logger)

	delivered := 0
	n.Subscribe(func(cart.Event) { delivered++ })
	n.Subscribe(func(cart.Event) { panic("boom") })
	n.Subscribe(func(cart.Event) { delivered++ })

	assert.NotPanics(t, func() {
		n.Publish(cart.Event{Kind: cart.EventAdd, ProductID: 3})
	})

	assert.Equal(t, 2, delivered)
	if assert.Len(t, hook.Entries, 1) {
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		assert.Equal(t, 3, hook.LastEntry().Data["product_id"])
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	logger, _ := test.NewNullLogger()
	n := cart.NewNotifier(logger)

	calls := 0
	unsubscribe := n.Subscribe(func(cart.Event) { calls++ })
	n.Publish(cart.Event{Kind: cart.EventClear})

	unsubscribe()
	unsubscribe()
	n.Publish(cart.Event{Kind: cart.EventClear})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, n.Len())
}

func TestNotifier_UnsubscribeDuringPublish(t *testing.T) {
	logger, _ := test.NewNullLogger()
	n := cart.NewNotifier(logger)

	var calls []string
	var unsubscribeFirst func()
	unsubscribeFirst = n.Subscribe(func(cart.Event) {
		calls = append(calls, "first")
		unsubscribeFirst()
	})
	n.Subscribe(func(cart.Event) { calls = append(calls, "second") })

	n.Publish(cart.Event{Kind: cart.EventClear})
	n.Publish(cart.Event{Kind: cart.EventClear})

	assert.Equal(t, []string{"first", "second", "second"}, calls)
}

func TestNotifier_ListenersGetPrivateCopies(t *testing.T) {
	logger, _ := test.NewNullLogger()
	n := cart.NewNotifier(logger)

	line := &cart.LineItem{ID: 1, Quantity: dec("2"), Packages: []cart.Package{{ID: 1, DisplayName: "x"}}}
	n.Subscribe(func(e cart.Event) {
		e.Line.Quantity = dec("99")
		e.Line.Packages[0].DisplayName = "mutated"
	})

	var seen cart.LineItem
	n.Subscribe(func(e cart.Event) { seen = *e.Line })

	n.Publish(cart.Event{Kind: cart.EventUpdate, ProductID: 1, Line: line})

	assert.True(t, seen.Quantity.Equal(dec("2")))
	assert.Equal(t, "x", seen.Packages[0].DisplayName)
	assert.True(t, line.Quantity.Equal(dec("2")))
}
