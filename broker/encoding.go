package broker

import (
	"bytes"
	"encoding/gob"
	"errors"

	"github.com/go-kratos/kratos/v2/encoding"
	_ "github.com/go-kratos/kratos/v2/encoding/json"
)

// Marshal encodes a message into bytes using the provided codec.
// Without a codec, []byte and string bodies pass through untouched; the
// relay's wire payloads are opaque strings and must not be re-encoded.
func Marshal(codec encoding.Codec, msg Any) ([]byte, error) {
	if msg == nil {
		return nil, errors.New("message is nil")
	}

	if codec != nil {
		return codec.Marshal(msg)
	}

	switch t := msg.(type) {
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	default:
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// Unmarshal decodes bytes into outValue using the provided codec.
func Unmarshal(codec encoding.Codec, data []byte, outValue Any) error {
	if data == nil {
		return errors.New("data is nil")
	}
	if outValue == nil {
		return errors.New("outValue is nil; must be a pointer to the target value")
	}

	if codec != nil {
		return codec.Unmarshal(data, outValue)
	}

	switch v := outValue.(type) {
	case *[]byte:
		*v = make([]byte, len(data))
		copy(*v, data)
		return nil
	case *string:
		*v = string(data)
		return nil
	default:
		return gob.NewDecoder(bytes.NewBuffer(data)).Decode(outValue)
	}
}
