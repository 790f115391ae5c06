package relay

// Attr is one event attribute. Attributes keep their declaration order so
// the legacy wire form is deterministic.
type Attr struct {
	Key   string
	Value any
}

// KV builds an attribute.
func KV(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Event is a named payload that exists only in flight: it is built
// immediately before publishing and has no identity or stored form.
type Event struct {
	Name       string
	Attributes []Attr
}

func NewEvent(name string, attrs ...Attr) Event {
	return Event{Name: name, Attributes: attrs}
}

// Attr returns the value for key and whether it is present.
func (e Event) Attr(key string) (any, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}
