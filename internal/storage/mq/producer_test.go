package mq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shaikat-CSE/goldennicheims/pkg/ptr"
)

func TestBuildProduceRecord(t *testing.T) {
	t.Run("Should copy headers in key order and set the key", func(t *testing.T) {
		r := buildProduceRecord(ProduceMsg{
			Topic:        "stock.movement.recorded",
			Headers:      map[string]string{"x-tenant-id": "acme", "traceparent": "00-abc", "x-correlation-id": "c1"},
			Payload:      []byte(`{"product_id":7}`),
			PartitionKey: ptr.New("7"),
		})

		assert.Equal(t, "stock.movement.recorded", r.Topic)
		assert.Equal(t, []byte("7"), r.Key)
		assert.JSONEq(t, `{"product_id":7}`, string(r.Value))

		keys := make([]string, 0, len(r.Headers))
		for _, h := range r.Headers {
			keys = append(keys, h.Key)
		}
		assert.Equal(t, []string{"traceparent", "x-correlation-id", "x-tenant-id"}, keys)
	})

	t.Run("Should leave the key empty without a partition key", func(t *testing.T) {
		r := buildProduceRecord(ProduceMsg{Topic: "t"})
		assert.Nil(t, r.Key)
		assert.Empty(t, r.Headers)
	})
}
