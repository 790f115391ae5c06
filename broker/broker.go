package broker

// Any is a message body of arbitrary type.
type Any interface{}

// Binder returns a fresh value for a codec to decode a message body into.
type Binder func() Any

// Broker is a transport-agnostic message broker.
type Broker interface {
	// Name returns the implementation name, e.g. "rabbitmq".
	Name() string

	// Options returns the broker options.
	Options() Options

	// Address returns the first configured broker address.
	Address() string

	// Init applies options and normalizes addresses.
	Init(...Option) error

	// Connect establishes the transport connection.
	Connect() error

	// Disconnect closes the connection and waits for in-flight handlers.
	Disconnect() error

	// Publish encodes msg with the configured codec and publishes it to topic.
	Publish(topic string, msg Any, opts ...PublishOption) error

	// Subscribe consumes messages from topic and invokes handler for each one.
	Subscribe(topic string, handler Handler, binder Binder, opts ...SubscribeOption) (Subscriber, error)
}
