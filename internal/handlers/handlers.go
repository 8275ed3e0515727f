package handlers

import (
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/events"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/payments"
)

var (
	paymentRegistry *payments.Registry
	eventPublisher  *events.Publisher
	eventSubscriber *events.Subscriber
)

// Init wires the shared collaborators. Publisher and subscriber may be nil
// (e.g. NATS disabled in development); handlers then skip realtime pushes
// and the event stream reports unavailable.
func Init(registry *payments.Registry, publisher *events.Publisher, subscriber *events.Subscriber) {
	paymentRegistry = registry
	eventPublisher = publisher
	eventSubscriber = subscriber
}
