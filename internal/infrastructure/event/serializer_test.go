package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/catalog"
	"github.com/oms/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializerRoundTrip(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	v, err := catalog.NewVariant(uuid.New(), "MUG-BLUE", "Blue Mug")
	require.NoError(t, err)
	v.StockOnHand = 20
	v.Reserved = 5
	original := catalog.NewStockReservedEvent(v, 5, 0)

	payload, err := serializer.Serialize(original)
	require.NoError(t, err)

	decoded, err := serializer.Deserialize(catalog.EventTypeStockReserved, payload)
	require.NoError(t, err)

	reserved, ok := decoded.(*catalog.StockReservedEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), reserved.EventID())
	assert.Equal(t, original.TenantID(), reserved.TenantID())
	assert.Equal(t, "MUG-BLUE", reserved.SKU)
	assert.Equal(t, int64(5), reserved.Quantity)
	assert.Equal(t, int64(15), reserved.Available)
}

func TestEventSerializerUnregisteredType(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("SomethingNobodyEmits", []byte(`{}`))
	assert.ErrorContains(t, err, "unregistered event type")
}

func TestEventSerializerBadPayload(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	_, err := serializer.Deserialize(catalog.EventTypeStockReserved, []byte(`{not json`))
	assert.Error(t, err)
}

func TestRegisterAllEventsCoversTheCatalog(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	for _, eventType := range []string{
		trade.EventTypeOrderCreated,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypePurchaseAccepted,
		trade.EventTypePurchaseUnaccepted,
		catalog.EventTypeStockReserved,
		catalog.EventTypeStockBelowThreshold,
	} {
		assert.True(t, serializer.Known(eventType), eventType)
	}
}
