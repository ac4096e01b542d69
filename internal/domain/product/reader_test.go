package product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepo struct {
	Repository
	products map[uint]*Product
	calls    int
}

func (s *stubRepo) FindByID(_ context.Context, id uint) (*Product, error) {
	s.calls++
	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

type memCache struct {
	items  map[uint]*Product
	getErr error
}

func (m *memCache) Get(_ context.Context, id uint) (*Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.items[id], nil
}

func (m *memCache) Set(_ context.Context, p *Product) error {
	m.items[p.ID] = p
	return nil
}

func (m *memCache) Delete(_ context.Context, ids ...uint) error {
	for _, id := range ids {
		delete(m.items, id)
	}
	return nil
}

func TestCachedReader_CacheAside(t *testing.T) {
	repo := &stubRepo{products: map[uint]*Product{1: {ID: 1, Name: "TV", StockQuantity: 3}}}
	cache := &memCache{items: map[uint]*Product{}}
	r := NewCachedReader(repo, cache, zap.NewNop())
	ctx := context.Background()

	p, err := r.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "TV", p.Name)
	assert.Equal(t, 1, repo.calls)

	// 第二次命中缓存
	_, err = r.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	r.Invalidate(ctx, 1)
	_, err = r.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestCachedReader_CacheFailureFallsBack(t *testing.T) {
	repo := &stubRepo{products: map[uint]*Product{1: {ID: 1}}}
	cache := &memCache{items: map[uint]*Product{}, getErr: errors.New("redis down")}
	r := NewCachedReader(repo, cache, zap.NewNop())

	_, err := r.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestCachedReader_NotFound(t *testing.T) {
	r := NewCachedReader(&stubRepo{products: map[uint]*Product{}}, nil, zap.NewNop())
	_, err := r.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
