package intel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/pkg/logger"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	return NewAggregator(NewMemoryStore(), logger.NewDefault())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   models.Entity
		want string
	}{
		{"upi lowercased", models.Entity{Kind: models.EntityUPIID, Value: "Scammer@YBL"}, "scammer@ybl"},
		{"account stripped to digits", models.Entity{Kind: models.EntityBankAccount, Value: "1234-5678-9012"}, "123456789012"},
		{"ifsc uppercased", models.Entity{Kind: models.EntityIFSCCode, Value: "sbin0001234"}, "SBIN0001234"},
		{"link trailing punctuation trimmed", models.Entity{Kind: models.EntityPhishingLink, Value: "http://bit.ly/x."}, "http://bit.ly/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in).Value)
		})
	}
}

func TestAggregatorIdempotent(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	entities := []models.Entity{
		{Kind: models.EntityUPIID, Value: "scammer@ybl"},
		{Kind: models.EntityBankAccount, Value: "123456789012"},
	}

	first, err := agg.Record(ctx, "s1", entities)
	require.NoError(t, err)

	second, err := agg.Record(ctx, "s1", entities)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"scammer@ybl"}, second.UPIIDs)
	assert.Equal(t, []string{"123456789012"}, second.BankAccounts)
}

func TestAggregatorDedupAfterNormalization(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	_, err := agg.Record(ctx, "s1", []models.Entity{
		{Kind: models.EntityUPIID, Value: "Scammer@YBL"},
	})
	require.NoError(t, err)

	intel, err := agg.Record(ctx, "s1", []models.Entity{
		{Kind: models.EntityUPIID, Value: "scammer@ybl"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"scammer@ybl"}, intel.UPIIDs)
}

func TestAggregatorMonotonic(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	_, err := agg.Record(ctx, "s1", []models.Entity{
		{Kind: models.EntityUPIID, Value: "scammer@ybl"},
	})
	require.NoError(t, err)

	// A later turn with no entities must not lose earlier ones
	intel, err := agg.Record(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"scammer@ybl"}, intel.UPIIDs)

	intel, err = agg.Record(ctx, "s1", []models.Entity{
		{Kind: models.EntityPhishingLink, Value: "http://bit.ly/x"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"scammer@ybl"}, intel.UPIIDs)
	assert.Equal(t, []string{"http://bit.ly/x"}, intel.PhishingLinks)
}

func TestAggregatorSessionsIsolated(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	_, err := agg.Record(ctx, "s1", []models.Entity{
		{Kind: models.EntityUPIID, Value: "scammer@ybl"},
	})
	require.NoError(t, err)

	other, err := agg.Intelligence(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 0, other.Count())
}

func TestAggregatorSortedOutput(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	intel, err := agg.Record(ctx, "s1", []models.Entity{
		{Kind: models.EntityUPIID, Value: "zz@ybl"},
		{Kind: models.EntityUPIID, Value: "aa@ybl"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"aa@ybl", "zz@ybl"}, intel.UPIIDs)
}
