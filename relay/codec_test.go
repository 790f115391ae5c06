package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyCodecEncode(t *testing.T) {
	testcases := []struct {
		title string
		evt   Event
		want  string
	}{
		{
			"payment completed",
			NewEvent("PaymentCompleted", KV("order_id", 42), KV("amount", 19.99)),
			"PaymentCompleted:{'order_id': 42, 'amount': 19.99}",
		},
		{
			"dish created",
			NewEvent("DishCreated", KV("id", 7), KV("name", "Borscht")),
			"DishCreated:{'id': 7, 'name': 'Borscht'}",
		},
		{
			"no attributes",
			NewEvent("CatalogSynced"),
			"CatalogSynced:{}",
		},
		{
			"attribute order preserved",
			NewEvent("E", KV("b", 2), KV("a", 1)),
			"E:{'b': 2, 'a': 1}",
		},
	}

	for _, test := range testcases {
		body, err := LegacyCodec{}.Encode(test.evt)
		require.Nil(t, err, test.title)
		assert.Equal(t, test.want, string(body), test.title)
	}
}

func TestLegacyCodecEncodeEmptyName(t *testing.T) {
	_, err := LegacyCodec{}.Encode(Event{})
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestLegacyCodecDecode(t *testing.T) {
	evt, err := LegacyCodec{}.Decode([]byte("PaymentCompleted:{'order_id': 42, 'amount': 19.99}"))
	require.Nil(t, err)
	assert.Equal(t, "PaymentCompleted", evt.Name)

	payload, ok := evt.Attr(PayloadAttr)
	require.True(t, ok)
	assert.Equal(t, "{'order_id': 42, 'amount': 19.99}", payload)

	// Colons inside the payload belong to the payload.
	evt, err = LegacyCodec{}.Decode([]byte("DeliveryAssigned:order 7: courier 3"))
	require.Nil(t, err)
	assert.Equal(t, "DeliveryAssigned", evt.Name)

	_, err = LegacyCodec{}.Decode([]byte("no separator here"))
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = LegacyCodec{}.Decode([]byte(":starts with separator"))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestJSONCodecRoundTrip(t *testing.T) {
	in := NewEvent("PaymentCompleted", KV("amount", 19.99), KV("order_id", float64(42)))

	body, err := JSONCodec{}.Encode(in)
	require.Nil(t, err)

	out, err := JSONCodec{}.Decode(body)
	require.Nil(t, err)
	assert.Equal(t, in.Name, out.Name)

	amount, ok := out.Attr("amount")
	require.True(t, ok)
	assert.Equal(t, 19.99, amount)

	orderID, ok := out.Attr("order_id")
	require.True(t, ok)
	assert.Equal(t, float64(42), orderID)
}

func TestJSONCodecDecodeErrors(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte("not json"))
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = JSONCodec{}.Decode([]byte(`{"attributes": {}}`))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestCodecByName(t *testing.T) {
	c, err := CodecByName("legacy")
	require.Nil(t, err)
	assert.Equal(t, "legacy", c.Name())

	c, err = CodecByName("")
	require.Nil(t, err)
	assert.Equal(t, "legacy", c.Name())

	c, err = CodecByName("json")
	require.Nil(t, err)
	assert.Equal(t, "json", c.Name())

	_, err = CodecByName("xml")
	assert.NotNil(t, err)
}
