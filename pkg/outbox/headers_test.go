package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
	"github.com/Shaikat-CSE/goldennicheims/pkg/correlationid"
	"github.com/Shaikat-CSE/goldennicheims/pkg/outbox"
)

func TestHeadersRoundTrip(t *testing.T) {
	ctx := correlationid.NewContext(context.Background(), "corr-1")
	ctx = actor.WithTenant(ctx, "acme")
	ctx = actor.WithUser(ctx, "alice")

	headers := outbox.BuildHeaders(ctx)
	assert.Equal(t, "corr-1", headers[correlationid.Header])
	assert.Equal(t, "acme", headers[actor.TenantHeader])

	rec := &kgo.Record{}
	for k, v := range headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}

	got := outbox.ExtractContextFromHeaders(context.Background(), outbox.RecordHeaders(rec))

	id, ok := correlationid.FromContext(got)
	assert.True(t, ok)
	assert.Equal(t, "corr-1", id)

	user, ok := actor.User(got)
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
}
