package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/kvstore"
	"github.com/utafrali/storefront/internal/kvstore/memory"
	"github.com/utafrali/storefront/pkg/logger"
)

// --- Fakes ---

type fakeSession struct {
	mu     sync.Mutex
	userID string
}

func (s *fakeSession) CurrentUserID(context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.userID != ""
}

func (s *fakeSession) signIn(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

// --- Helpers ---

type testEnv struct {
	kv      *memory.Store
	session *fakeSession
	catalog *mockCatalog
}

func newTestEnv(userID string) *testEnv {
	return &testEnv{
		kv:      memory.NewStore(time.Minute),
		session: &fakeSession{userID: userID},
		catalog: new(mockCatalog),
	}
}

func (e *testEnv) storefront(t *testing.T) *Storefront {
	t.Helper()
	return New(context.Background(), e.kv, e.session, e.catalog, logger.Discard(), Options{Now: steppingClock()})
}

func (e *testEnv) raw(t *testing.T, key string) string {
	t.Helper()
	v, _ := e.kv.Get(context.Background(), key)
	return v
}

// steppingClock returns a clock that advances one minute per call.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

func product(id string, price float64) domain.Product {
	return domain.Product{
		ID:       domain.ProductID(id),
		Name:     "Product " + id,
		Price:    price,
		ImageURL: "https://img.example/" + id + ".jpg",
	}
}

func ids(products []domain.Product) []domain.ProductID {
	out := make([]domain.ProductID, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

var _ kvstore.Store = (*memory.Store)(nil)
