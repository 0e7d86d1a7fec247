// internal/domain/cart/notifier.go
package cart

import (
	"github.com/sirupsen/logrus"
)

// EventKind discriminates cart change notifications
type EventKind string

const (
	EventAdd        EventKind = "add"
	EventUpdate     EventKind = "update"
	EventRemove     EventKind = "remove"
	EventClear      EventKind = "clear"
	EventChangeUnit EventKind = "changeUnit"
	EventInitialize EventKind = "initialize"
)

// Event is published once per committed mutation
type Event struct {
	Kind      EventKind `json:"kind"`
	ProductID int       `json:"product_id,omitempty"`
	Line      *LineItem `json:"line,omitempty"`
}

// Listener receives cart events
type Listener func(Event)

type subscription struct {
	id       int
	listener Listener
}

// Notifier fans events out to listeners synchronously, in subscription order
type Notifier struct {
	logger logrus.FieldLogger
	nextID int
	subs   []subscription
}

// NewNotifier creates a notifier that reports listener panics to logger
func NewNotifier(logger logrus.FieldLogger) *Notifier {
	return &Notifier{logger: logger}
}

// Subscribe registers listener and returns a func that removes it.
// Calling the returned func more than once is harmless.
func (n *Notifier) Subscribe(listener Listener) func() {
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscription{id: id, listener: listener})

	return func() {
		for i, sub := range n.subs {
			if sub.id == id {
				n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers event to every current listener. Each listener gets its own
// copy of the line so it cannot reach into the store.
func (n *Notifier) Publish(event Event) {
	// listeners may unsubscribe while we iterate
	subs := make([]subscription, len(n.subs))
	copy(subs, n.subs)

	for _, sub := range subs {
		delivered := event
		if event.Line != nil {
			line := event.Line.clone()
			delivered.Line = &line
		}
		n.deliver(sub, delivered)
	}
}

func (n *Notifier) deliver(sub subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.WithFields(logrus.Fields{
				"listener":   sub.id,
				"event":      event.Kind,
				"product_id": event.ProductID,
				"panic":      r,
			}).Error("Cart listener panicked")
		}
	}()
	sub.listener(event)
}

// Len reports the number of active listeners
func (n *Notifier) Len() int {
	return len(n.subs)
}
