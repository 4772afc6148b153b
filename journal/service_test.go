package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openstreets/server/model"
	"github.com/openstreets/server/testutil"
)

func TestJournalPersistsWorldEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	_, ps := testutil.SetupTestCache(t)

	svc, err := New(db, ps, "game.events", zap.NewNop())
	require.NoError(t, err)
	defer svc.Stop()

	ctx := context.Background()
	require.NoError(t, ps.Publish(ctx, "game.events",
		`{"type":"mission_completed","data":{"mission_id":1}}`))
	require.NoError(t, ps.Publish(ctx, "game.events",
		`{"type":"npc_killed","data":{"npc_id":7,"archetype":"gangster"}}`))
	// Garbage on the channel is ignored.
	require.NoError(t, ps.Publish(ctx, "game.events", `not json`))

	require.Eventually(t, func() bool {
		var count int64
		db.Model(&model.EventLog{}).Count(&count)
		return count == 2
	}, 5*time.Second, 50*time.Millisecond)

	var entries []model.EventLog
	require.NoError(t, db.Order("id").Find(&entries).Error)
	assert.Equal(t, "mission_completed", entries[0].Type)
	assert.JSONEq(t, `{"mission_id":1}`, string(entries[0].Payload))
	assert.Equal(t, "npc_killed", entries[1].Type)
}

func TestJournalStopFlushes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	_, ps := testutil.SetupTestCache(t)

	svc, err := New(db, ps, "game.events", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, ps.Publish(context.Background(), "game.events",
		`{"type":"checkpoint","data":{"x":5,"y":5}}`))

	// Give the subscriber a moment to pick the message up, then Stop
	// must flush without waiting for the batch ticker.
	time.Sleep(100 * time.Millisecond)
	svc.Stop()

	var count int64
	db.Model(&model.EventLog{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
