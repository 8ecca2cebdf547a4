package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	id string
	n  int
}

func TestRegistryOpenReusesSession(t *testing.T) {
	var created atomic.Int32
	reg := NewRegistry(func(_ context.Context, id string) (*counter, error) {
		created.Add(1)
		return &counter{id: id}, nil
	})

	a, err := reg.Open(context.Background(), "a")
	require.NoError(t, err)
	a.n = 5

	again, err := reg.Open(context.Background(), "a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	b, err := reg.Open(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 0, b.n)

	assert.EqualValues(t, 2, created.Load())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryClose(t *testing.T) {
	reg := NewRegistry(func(_ context.Context, id string) (*counter, error) {
		return &counter{id: id}, nil
	})

	_, err := reg.Open(context.Background(), "a")
	require.NoError(t, err)

	closed, ok := reg.Close("a")
	require.True(t, ok)
	assert.Equal(t, "a", closed.id)

	assert.Equal(t, 0, reg.Len())

	_, ok = reg.Close("a")
	assert.False(t, ok)
}

func TestRegistryFactoryError(t *testing.T) {
	reg := NewRegistry(func(_ context.Context, _ string) (*counter, error) {
		return nil, errors.New("boom")
	})

	_, err := reg.Open(context.Background(), "a")
	require.Error(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryConcurrentOpen(t *testing.T) {
	var created atomic.Int32
	reg := NewRegistry(func(_ context.Context, id string) (*counter, error) {
		created.Add(1)
		return &counter{id: id}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Open(context.Background(), "shared")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
}

func TestNewIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
