package bus

import "time"

// EventBus is an in-process pub/sub bus.
//
// Handlers subscribe by event type, optionally scoped to a topic; the default
// topic is "". Delivery is synchronous in the publisher's goroutine and handler
// errors are joined and returned from Publish. Handlers must be quick: the
// registry publishes from inside its mutating calls.
//
// All methods are safe for concurrent use.
type EventBus interface {
	// Publish delivers the event to subscribers of event.Type() in the default topic.
	Publish(event Event) error
	// Subscribe registers a handler for an event type in the default topic.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the subscription. Nil is ignored.
	Unsubscribe(Subscription) error

	// PublishWithFilters drops the event silently if any filter rejects it.
	PublishWithFilters(event Event, filters ...EventFilter) error

	CreateTopic(name string) error
	// SubscribeTopic registers a handler for eventType within a topic.
	// An empty eventType receives every event published to the topic.
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	PublishToTopic(topic string, event Event) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// Metrics are only accumulated while at least one observer is registered.
	Metrics() Metrics
	Topics() []TopicInfo
}

// Event is an immutable message carried by the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked once per delivered event.
	EventHandler func(event Event) error
	// EventFilter returns false to drop an event before delivery.
	EventFilter func(event Event) bool
)

// Subscription is a registered handler.
type Subscription interface {
	ID() string
	Topic() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is told about every delivery. Implementations must return quickly.
type Observer interface {
	OnPublish(topic, eventType string, event Event)
	OnDelivered(topic, eventType string, handlers int, err error, elapsed time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
}

type TopicInfo struct {
	Name       string
	EventTypes int
	Subs       int
}
