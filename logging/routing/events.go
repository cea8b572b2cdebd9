package routing

import (
	"context"
	"time"

	"shopnav/server/logging"
)

const (
	// EventRouteRequested is emitted when a route computation starts.
	EventRouteRequested logging.EventType = "routing.route_requested"
	// EventRouteCompleted is emitted when a route computation produced
	// waypoints.
	EventRouteCompleted logging.EventType = "routing.route_completed"
	// EventRouteFailed is emitted when no route could be found.
	EventRouteFailed logging.EventType = "routing.route_failed"
	// EventLayoutUpdated is emitted when the layout document is replaced.
	EventLayoutUpdated logging.EventType = "routing.layout_updated"
	// EventProductUpdated is emitted when a product is created or changed.
	EventProductUpdated logging.EventType = "routing.product_updated"
)

type RouteRequestedPayload struct {
	StartFloor int     `json:"startFloor"`
	StartX     float64 `json:"startX"`
	StartZ     float64 `json:"startZ"`
	BayID      string  `json:"bayId,omitempty"`
	ShelfID    string  `json:"shelfId,omitempty"`
}

func RouteRequested(ctx context.Context, pub logging.Publisher, subject logging.SubjectRef, payload RouteRequestedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRouteRequested,
		Subject:  subject,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryRouting,
		Payload:  payload,
	})
}

type RouteCompletedPayload struct {
	Waypoints int           `json:"waypoints"`
	Floors    int           `json:"floors"`
	Elapsed   time.Duration `json:"elapsedNanos"`
}

func RouteCompleted(ctx context.Context, pub logging.Publisher, subject logging.SubjectRef, payload RouteCompletedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRouteCompleted,
		Subject:  subject,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryRouting,
		Payload:  payload,
	})
}

type RouteFailedPayload struct {
	Reason string `json:"reason"`
}

func RouteFailed(ctx context.Context, pub logging.Publisher, subject logging.SubjectRef, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRouteFailed,
		Subject:  subject,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryRouting,
		Payload:  RouteFailedPayload{Reason: reason},
	})
}

func LayoutUpdated(ctx context.Context, pub logging.Publisher, name string, floors int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventLayoutUpdated,
		Subject:  logging.SubjectRef{ID: name, Kind: logging.SubjectKindLayout},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCatalog,
		Payload:  map[string]int{"floors": floors},
	})
}

func ProductUpdated(ctx context.Context, pub logging.Publisher, productID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventProductUpdated,
		Subject:  logging.SubjectRef{ID: productID, Kind: logging.SubjectKindProduct},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCatalog,
	})
}
