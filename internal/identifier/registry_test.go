package identifier

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"formgate/internal/identifier/metrics"
	"formgate/internal/identifier/store"
)

type RegistrySuite struct {
	suite.Suite
	ctx       context.Context
	persister *store.InMemory
	metrics   *metrics.Metrics
	registry  *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.ctx = context.Background()
	s.persister = store.NewInMemory()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.registry = NewRegistry(s.persister, WithMetrics(s.metrics))
	s.Require().NoError(s.registry.Load(s.ctx))
}

func (s *RegistrySuite) TestLoad() {
	s.Run("missing persisted state starts empty", func() {
		s.NotNil(s.registry.List(s.ctx))
		s.Empty(s.registry.List(s.ctx))
	})

	s.Run("persisted state replaces memory", func() {
		r := NewRegistry(store.NewInMemoryWith("abc12345678", "ZZZ00000000"))
		s.Require().NoError(r.Load(s.ctx))
		s.Equal([]string{"abc12345678", "ZZZ00000000"}, r.List(s.ctx))
	})

	s.Run("corrupt file resets to empty and leaves file untouched", func() {
		path := filepath.Join(s.T().TempDir(), "validIDs.json")
		s.Require().NoError(os.WriteFile(path, []byte("{not json"), 0o644))

		r := NewRegistry(store.NewFileStore(path))
		s.Require().ErrorIs(r.Load(s.ctx), ErrLoad)

		s.Empty(r.List(s.ctx))
		data, err := os.ReadFile(path)
		s.Require().NoError(err)
		s.Equal("{not json", string(data))
	})
}

func (s *RegistrySuite) TestAdd() {
	s.Run("rejects bad format before membership", func() {
		err := s.registry.Add(s.ctx, "short")
		s.Require().ErrorIs(err, ErrInvalidFormat)
		s.Equal(0, s.persister.Saves())
	})

	s.Run("appends and persists", func() {
		s.Require().NoError(s.registry.Add(s.ctx, "abc12345678"))
		s.Require().NoError(s.registry.Add(s.ctx, "ZZZ00000000"))

		s.Equal([]string{"abc12345678", "ZZZ00000000"}, s.registry.List(s.ctx))
		s.Equal([]string{"abc12345678", "ZZZ00000000"}, s.persister.Snapshot())
		s.Equal(2.0, testutil.ToFloat64(s.metrics.RegistrySize))
	})

	s.Run("second add of the same id is a duplicate", func() {
		before := s.registry.Len()
		s.Require().ErrorIs(s.registry.Add(s.ctx, "abc12345678"), ErrDuplicate)
		s.Equal(before, s.registry.Len())
	})

	s.Run("persistence failure keeps the in-memory append", func() {
		s.persister.FailWith(errors.New("disk full"))
		defer s.persister.FailWith(nil)

		err := s.registry.Add(s.ctx, "persistFail")
		s.Require().ErrorIs(err, ErrPersist)
		s.Contains(err.Error(), "disk full")
		s.True(s.registry.Contains(s.ctx, "persistFail"))
		s.NotContains(s.persister.Snapshot(), "persistFail")
		s.Equal(1.0, testutil.ToFloat64(s.metrics.PersistFailures.WithLabelValues("add")))
	})
}

func (s *RegistrySuite) TestRemove() {
	s.Require().NoError(s.registry.Add(s.ctx, "abc12345678"))
	s.Require().NoError(s.registry.Add(s.ctx, "ZZZ00000000"))

	s.Run("unknown id is not found and changes nothing", func() {
		s.Require().ErrorIs(s.registry.Remove(s.ctx, "xyz98765432"), ErrNotFound)
		s.Equal([]string{"abc12345678", "ZZZ00000000"}, s.registry.List(s.ctx))
	})

	s.Run("removes and persists", func() {
		s.Require().NoError(s.registry.Remove(s.ctx, "abc12345678"))
		s.False(s.registry.Contains(s.ctx, "abc12345678"))
		s.Equal([]string{"ZZZ00000000"}, s.persister.Snapshot())
	})

	s.Run("persistence failure keeps the in-memory removal", func() {
		s.persister.FailWith(errors.New("disk full"))
		defer s.persister.FailWith(nil)

		s.Require().ErrorIs(s.registry.Remove(s.ctx, "ZZZ00000000"), ErrPersist)
		s.False(s.registry.Contains(s.ctx, "ZZZ00000000"))
		s.Contains(s.persister.Snapshot(), "ZZZ00000000")
		s.Equal(1.0, testutil.ToFloat64(s.metrics.PersistFailures.WithLabelValues("remove")))
	})

	s.Run("removes every occurrence of a duplicated persisted id", func() {
		r := NewRegistry(store.NewInMemoryWith("dupdupdup00", "keepkeep000", "dupdupdup00"))
		s.Require().NoError(r.Load(s.ctx))
		s.Require().NoError(r.Remove(s.ctx, "dupdupdup00"))
		s.Equal([]string{"keepkeep000"}, r.List(s.ctx))
	})
}

func (s *RegistrySuite) TestRoundTripThroughFile() {
	path := filepath.Join(s.T().TempDir(), "validIDs.json")
	r := NewRegistry(store.NewFileStore(path))
	s.Require().NoError(r.Load(s.ctx))
	s.Require().NoError(r.Add(s.ctx, "abc12345678"))

	reloaded := NewRegistry(store.NewFileStore(path))
	s.Require().NoError(reloaded.Load(s.ctx))
	s.Contains(reloaded.List(s.ctx), "abc12345678")
}

func (s *RegistrySuite) TestListIsACopy() {
	s.Require().NoError(s.registry.Add(s.ctx, "abc12345678"))
	ids := s.registry.List(s.ctx)
	ids[0] = "mutated0000"
	s.Equal([]string{"abc12345678"}, s.registry.List(s.ctx))
}

func (s *RegistrySuite) TestConcurrentAddsAllPersist() {
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.NoError(s.registry.Add(s.ctx, fmt.Sprintf("concur%05d", i)))
		}(i)
	}
	wg.Wait()

	s.Equal(50, s.registry.Len())
	s.Len(s.persister.Snapshot(), 50)
}
