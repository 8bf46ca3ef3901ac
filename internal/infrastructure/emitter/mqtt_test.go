package emitter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"stripe-inspector/internal/domain/entity"
)

func TestTopics(t *testing.T) {
	require.Equal(t, "stripe-inspector/run-1/frames", FramesTopic("stripe-inspector", "run-1"))
	require.Equal(t, "line/3/run-1/summary", SummaryTopic("line/3", "run-1"))
}

func TestFrameEventPayload(t *testing.T) {
	event := frameEvent{
		RunID: "run-1",
		FrameVerdict: entity.FrameVerdict{
			Index:     3,
			Edges:     entity.PathResult{ContourCount: 6, Present: true},
			Threshold: entity.PathResult{ContourCount: 1},
		},
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"run_id": "run-1",
		"index": 3,
		"edges": {"contour_count": 6, "present": true},
		"binary": {"contour_count": 1, "present": false}
	}`, string(data))
}

func TestPublishWithoutConnection(t *testing.T) {
	p := NewMQTTPublisher(Options{Broker: "localhost:1883", Topic: "stripe-inspector"}, nil)

	err := p.PublishFrame(context.Background(), "run-1", entity.FrameVerdict{})
	require.Error(t, err)
	err = p.PublishReport(context.Background(), &entity.VideoReport{RunID: "run-1"})
	require.Error(t, err)

	stats := p.Stats()
	require.False(t, stats.Connected)
	require.Equal(t, uint64(2), stats.Errors)
	require.Empty(t, stats.Published)

	p.Disconnect()
}
