package relay

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/go-kratos/kratos/v2/encoding"
	_ "github.com/go-kratos/kratos/v2/encoding/json"
)

// PayloadAttr holds the undecoded remainder when the legacy form is parsed;
// the historical text is lossy and does not round-trip into structured
// attributes.
const PayloadAttr = "payload"

var ErrMalformedEvent = errors.New("malformed event body")

// Codec converts events to and from their wire bodies. The transport layer
// treats the result as opaque bytes, so the format can change without
// touching publisher or subscriber plumbing.
type Codec interface {
	Name() string
	Encode(evt Event) ([]byte, error)
	Decode(data []byte) (Event, error)
}

// CodecByName resolves a codec from configuration.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "legacy":
		return LegacyCodec{}, nil
	case "json":
		return JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown wire format %q", name)
	}
}

// LegacyCodec emits the historical "<name>:<python-dict-repr>" text. It is
// the default because changing it breaks every consumer already reading the
// old form.
type LegacyCodec struct{}

func (LegacyCodec) Name() string { return "legacy" }

func (LegacyCodec) Encode(evt Event) ([]byte, error) {
	if evt.Name == "" {
		return nil, fmt.Errorf("%w: empty event name", ErrMalformedEvent)
	}
	return []byte(evt.Name + ":" + pyDict(evt.Attributes)), nil
}

func (LegacyCodec) Decode(data []byte) (Event, error) {
	idx := bytes.IndexByte(data, ':')
	if idx <= 0 {
		return Event{}, fmt.Errorf("%w: %q", ErrMalformedEvent, data)
	}
	return Event{
		Name:       string(data[:idx]),
		Attributes: []Attr{KV(PayloadAttr, string(data[idx+1:]))},
	}, nil
}

// JSONCodec is the structured upgrade. Selecting it breaks byte
// compatibility with consumers expecting the legacy text.
type JSONCodec struct{}

type jsonEvent struct {
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes"`
}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(evt Event) ([]byte, error) {
	if evt.Name == "" {
		return nil, fmt.Errorf("%w: empty event name", ErrMalformedEvent)
	}

	out := jsonEvent{
		Name:       evt.Name,
		Attributes: make(map[string]any, len(evt.Attributes)),
	}
	for _, a := range evt.Attributes {
		out.Attributes[a.Key] = a.Value
	}

	return encoding.GetCodec("json").Marshal(out)
}

func (JSONCodec) Decode(data []byte) (Event, error) {
	var in jsonEvent
	if err := encoding.GetCodec("json").Unmarshal(data, &in); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if in.Name == "" {
		return Event{}, fmt.Errorf("%w: empty event name", ErrMalformedEvent)
	}

	keys := make([]string, 0, len(in.Attributes))
	for k := range in.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	evt := Event{Name: in.Name}
	for _, k := range keys {
		evt.Attributes = append(evt.Attributes, KV(k, in.Attributes[k]))
	}
	return evt, nil
}
