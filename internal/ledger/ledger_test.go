package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerRecordsTransfersInOrder(t *testing.T) {
	ctx := context.Background()
	l := NewMemory()

	require.NoError(t, l.Transfer(ctx, 500, "ST1TEST", "ST2AUTHORITY"))
	require.NoError(t, l.Transfer(ctx, 750, "ST1TEST", "ST2AUTHORITY"))

	transfers := l.List()
	require.Len(t, transfers, 2)
	assert.Equal(t, uint64(500), transfers[0].Amount)
	assert.Equal(t, uint64(750), transfers[1].Amount)
	assert.Equal(t, "ST1TEST", string(transfers[0].From))
	assert.Equal(t, "ST2AUTHORITY", string(transfers[0].To))
	assert.False(t, transfers[0].At.IsZero())
}

func TestMemoryLedgerListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	l := NewMemory()
	require.NoError(t, l.Transfer(ctx, 500, "ST1TEST", "ST2AUTHORITY"))

	got := l.List()
	got[0].Amount = 1

	assert.Equal(t, uint64(500), l.List()[0].Amount)
}
