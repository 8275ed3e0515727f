package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/events"
)

// StreamStaffEvents is the dashboard's realtime feed: an SSE stream of
// order-created and waiter-called events for the authenticated restaurant.
// Delivery is at-most-once; a reconnecting dashboard catches up from the
// order and waiter-call lists.
func StreamStaffEvents(c *gin.Context) {
	if eventSubscriber == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime events unavailable"})
		return
	}
	restaurantID := c.GetUint("restaurant_id")

	ch := make(chan events.StaffEvent, 16)
	deliver := func(_ context.Context, msg []byte) error {
		var evt events.StaffEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			return err
		}
		select {
		case ch <- evt:
		default: // slow client; drop rather than block the NATS callback
		}
		return nil
	}

	ctx := c.Request.Context()
	orderSub, err := eventSubscriber.Subscribe(ctx, events.OrdersTopic(restaurantID), deliver)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to subscribe to order events"})
		return
	}
	defer orderSub.Unsubscribe()

	waiterSub, err := eventSubscriber.Subscribe(ctx, events.WaiterTopic(restaurantID), deliver)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to subscribe to waiter events"})
		return
	}
	defer waiterSub.Unsubscribe()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case evt := <-ch:
			c.SSEvent(evt.EventType, evt)
			return true
		}
	})
}
