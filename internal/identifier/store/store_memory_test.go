package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formgate/pkg/platform/sentinel"
)

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, s.Save(ctx, []string{"abc12345678"}))
	ids, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc12345678"}, ids)

	s.FailWith(errors.New("disk full"))
	assert.Error(t, s.Save(ctx, nil))
	assert.Equal(t, []string{"abc12345678"}, s.Snapshot())
	assert.Equal(t, 1, s.Saves())
}
