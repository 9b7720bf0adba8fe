package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"spending/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) Close() error { return nil }

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "ledger.expense.created", RoutingKey("ledger", ExpenseCreated))
	assert.Equal(t, "expense.created", RoutingKey("", ExpenseCreated))
}

func TestEventToJSON(t *testing.T) {
	body, err := New(LedgerCleared, map[string]int{"expenses": 3}).ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "ledger.cleared", decoded["type"])
	assert.Equal(t, float64(3), decoded["payload"].(map[string]any)["expenses"])
}

func TestEmit_SwallowsPublishErrors(t *testing.T) {
	rec := &recordingPublisher{err: errors.New("broker down")}
	Emit(context.Background(), rec, ExpenseDeleted, 7)
	require.Len(t, rec.events, 1)
	assert.Equal(t, ExpenseDeleted, rec.events[0].Type)

	// nil 发布器直接忽略
	Emit(context.Background(), nil, ExpenseDeleted, 7)
}

func TestNewPublisher_DisabledReturnsNop(t *testing.T) {
	p, err := NewPublisher(&config.EventsConfig{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), New(LedgerMerged, nil)))
	assert.NoError(t, p.Close())
}
