package service

import (
	"context"
	"fmt"

	"github.com/mealdash/eventrelay/relay"
)

// Catalog announces menu changes on the catalog_events exchange.
type Catalog struct {
	events EventSink
}

func NewCatalog(events EventSink) *Catalog {
	return &Catalog{events: events}
}

// DishCreated broadcasts a newly added dish. Attribute order is part of
// the wire format and must stay stable.
func (c *Catalog) DishCreated(ctx context.Context, dishID int, name string) error {
	evt := relay.NewEvent("DishCreated",
		relay.KV("id", dishID),
		relay.KV("name", name),
	)
	if err := c.events.Publish(ctx, evt); err != nil {
		return fmt.Errorf("publish DishCreated: %w", err)
	}
	return nil
}

// DishDeleted broadcasts a dish removal so downstream caches can evict.
func (c *Catalog) DishDeleted(ctx context.Context, dishID int) error {
	evt := relay.NewEvent("DishDeleted", relay.KV("id", dishID))
	if err := c.events.Publish(ctx, evt); err != nil {
		return fmt.Errorf("publish DishDeleted: %w", err)
	}
	return nil
}
