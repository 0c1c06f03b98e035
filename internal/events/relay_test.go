package events

import (
	"context"
	"encoding/json"
	"testing"

	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	keys   []string
	bodies [][]byte
}

func (p *recordingPublisher) Publish(_ context.Context, key string, body []byte) error {
	p.keys = append(p.keys, key)
	p.bodies = append(p.bodies, body)
	return nil
}

func TestRelayForwardsEventsWithNameAsRoutingKey(t *testing.T) {
	pub := &recordingPublisher{}
	bus := NewInMemoryBus(logger.Discard())
	NewRelay(pub, logger.Discard()).Register(bus)

	dealID := uuid.New()
	err := bus.PublishSync(context.Background(), DealStageChanged{
		BaseEvent: NewBaseEvent(),
		DealID:    dealID,
		Title:     "Acme - Jane Doe",
		OldStage:  "lead",
		NewStage:  "demo",
		Value:     12000,
	})
	require.NoError(t, err)

	require.Len(t, pub.keys, 1)
	assert.Equal(t, "deals.deal.stage_changed", pub.keys[0])

	var decoded struct {
		Name    string `json:"name"`
		Payload struct {
			DealID   uuid.UUID `json:"dealId"`
			NewStage string    `json:"newStage"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(pub.bodies[0], &decoded))
	assert.Equal(t, "deals.deal.stage_changed", decoded.Name)
	assert.Equal(t, dealID, decoded.Payload.DealID)
	assert.Equal(t, "demo", decoded.Payload.NewStage)
}
