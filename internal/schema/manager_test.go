package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-kb/costgraph/internal/graph"
	"github.com/finops-kb/costgraph/internal/types"
)

func TestManagerSetup(t *testing.T) {
	t.Run("applies constraints, indexes, and vector indexes", func(t *testing.T) {
		client := graph.NewMockClient()
		manager := NewManager(client, 384, nil)

		require.NoError(t, manager.Setup(context.Background()))

		writes := client.WriteCalls()
		expected := len(AllKinds()) + len(secondaryIndexes) + len(EmbedTargets())
		assert.Len(t, writes, expected)

		assert.Equal(t, len(AllKinds()), client.DistinctWritesMatching("CREATE CONSTRAINT"))
		assert.Equal(t, len(EmbedTargets()), client.DistinctWritesMatching("CREATE VECTOR INDEX"))
	})

	t.Run("rerun issues identical statements", func(t *testing.T) {
		client := graph.NewMockClient()
		manager := NewManager(client, 384, nil)
		ctx := context.Background()

		require.NoError(t, manager.Setup(ctx))
		first := client.DistinctWriteCount()
		require.NoError(t, manager.Setup(ctx))
		assert.Equal(t, first, client.DistinctWriteCount())
	})

	t.Run("write failure surfaces as setup error", func(t *testing.T) {
		client := graph.NewMockClient()
		client.SetWriteError(errors.New("boom"))
		manager := NewManager(client, 384, nil)

		err := manager.Setup(context.Background())
		require.Error(t, err)
		var cge *types.CostGraphError
		require.ErrorAs(t, err, &cge)
		assert.Equal(t, types.SCHEMA_SETUP_FAILED, cge.Code)
	})
}

func TestManagerReset(t *testing.T) {
	t.Run("refuses without confirmation", func(t *testing.T) {
		client := graph.NewMockClient()
		manager := NewManager(client, 384, nil)

		err := manager.Reset(context.Background(), false)
		require.Error(t, err)
		var cge *types.CostGraphError
		require.ErrorAs(t, err, &cge)
		assert.Equal(t, types.SCHEMA_RESET_REFUSED, cge.Code)
		assert.Empty(t, client.WriteCalls())
	})

	t.Run("deletes everything when confirmed", func(t *testing.T) {
		client := graph.NewMockClient()
		manager := NewManager(client, 384, nil)

		require.NoError(t, manager.Reset(context.Background(), true))
		writes := client.WriteCalls()
		require.Len(t, writes, 1)
		assert.Contains(t, writes[0].Cypher, "DETACH DELETE")
	})
}

func TestManagerStats(t *testing.T) {
	client := graph.NewMockClient()
	client.AddReadHandler("labels(n)", graph.QueryResult{
		Records: []map[string]any{
			{"label": "CostRecord", "count": int64(120)},
			{"label": "Service", "count": int64(9)},
		},
	}, nil)
	client.AddReadHandler("type(r)", graph.QueryResult{
		Records: []map[string]any{
			{"rel": "INCURRED_BY", "count": int64(120)},
		},
	}, nil)

	manager := NewManager(client, 384, nil)
	stats, err := manager.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(129), stats.TotalNodes)
	assert.Equal(t, int64(120), stats.NodesByLabel["CostRecord"])
	assert.Equal(t, int64(120), stats.TotalRelationships)
	assert.Equal(t, int64(120), stats.RelationshipsByType["INCURRED_BY"])
}
