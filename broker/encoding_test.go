package broker

import (
	"testing"

	"github.com/go-kratos/kratos/v2/encoding"
	"github.com/stretchr/testify/assert"
)

func TestMarshalPassthrough(t *testing.T) {
	buf, err := Marshal(nil, "DishCreated:{'id': 1}")
	assert.Nil(t, err)
	assert.Equal(t, []byte("DishCreated:{'id': 1}"), buf)

	raw := []byte{0x01, 0x02}
	buf, err = Marshal(nil, raw)
	assert.Nil(t, err)
	assert.Equal(t, raw, buf)

	_, err = Marshal(nil, nil)
	assert.NotNil(t, err)
}

func TestUnmarshalPassthrough(t *testing.T) {
	var s string
	err := Unmarshal(nil, []byte("Notification received"), &s)
	assert.Nil(t, err)
	assert.Equal(t, "Notification received", s)

	var b []byte
	err = Unmarshal(nil, []byte("payload"), &b)
	assert.Nil(t, err)
	assert.Equal(t, []byte("payload"), b)

	err = Unmarshal(nil, nil, &s)
	assert.NotNil(t, err)

	err = Unmarshal(nil, []byte("x"), nil)
	assert.NotNil(t, err)
}

func TestMarshalJSONCodec(t *testing.T) {
	codec := encoding.GetCodec("json")
	assert.NotNil(t, codec)

	type payload struct {
		OrderID int     `json:"order_id"`
		Amount  float64 `json:"amount"`
	}

	buf, err := Marshal(codec, &payload{OrderID: 42, Amount: 19.99})
	assert.Nil(t, err)

	var out payload
	err = Unmarshal(codec, buf, &out)
	assert.Nil(t, err)
	assert.Equal(t, 42, out.OrderID)
	assert.Equal(t, 19.99, out.Amount)
}
