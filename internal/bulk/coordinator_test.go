package bulk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkDeleteIsBestEffort(t *testing.T) {
	var calls []string
	c := NewCoordinator("reservations", func(ctx context.Context, id string) error {
		calls = append(calls, id)
		if id == "b" {
			return errors.New("403 forbidden")
		}
		return nil
	}, nil)
	c.Selection().SelectAll([]string{"c", "a", "b"})

	res := c.BulkDelete(context.Background())
	assert.Equal(t, []string{"a", "b", "c"}, calls, "sequential, in selection order")
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, []string{"b"}, res.FailedIDs())
	assert.False(t, res.OK())
	assert.EqualError(t, res.Err(), "2 succeeded, 1 failed: b")
	assert.Equal(t, 0, c.Selection().Len(), "selection cleared after partial failure")
}

func TestBulkDeleteAllSucceed(t *testing.T) {
	c := NewCoordinator("products", func(ctx context.Context, id string) error { return nil }, nil)
	c.Selection().SelectAll([]string{"a", "b"})

	res := c.BulkDelete(context.Background())
	assert.True(t, res.OK())
	assert.NoError(t, res.Err())
	assert.Equal(t, 2, res.Succeeded)
}

func TestBulkDeleteStopsIssuingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	c := NewCoordinator("products", func(ctx context.Context, id string) error {
		calls++
		cancel()
		return nil
	}, nil)
	c.Selection().SelectAll([]string{"a", "b", "c"})

	res := c.BulkDelete(ctx)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, []string{"b", "c"}, res.FailedIDs())
}

func TestBulkExportScope(t *testing.T) {
	var got [][]string
	c := NewCoordinator("orders", nil, func(ctx context.Context, ids []string) (string, error) {
		got = append(got, ids)
		return "/tmp/orders.csv", nil
	})

	path, err := c.BulkExport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/orders.csv", path)

	c.Selection().Toggle("o2")
	c.Selection().Toggle("o1")
	_, err = c.BulkExport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][]string{{}, {"o1", "o2"}}, got)
	assert.Equal(t, 0, c.Selection().Len())
}

func TestBulkExportKeepsSelectionOnFailure(t *testing.T) {
	c := NewCoordinator("orders", nil, func(ctx context.Context, ids []string) (string, error) {
		return "", errors.New("500 internal error")
	})
	c.Selection().Toggle("o1")

	_, err := c.BulkExport(context.Background())
	assert.ErrorContains(t, err, "export orders")
	assert.Equal(t, []string{"o1"}, c.Selection().IDs())

	c.Cancel()
	assert.Equal(t, 0, c.Selection().Len())
}
