package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/electromart/pkg/authz"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// memRepo 内存实现,模拟条件更新语义
type memRepo struct {
	stock map[uint]int
	min   map[uint]int
	max   map[uint]int
	logs  []*LogEntry
}

func newMemRepo() *memRepo {
	return &memRepo{stock: map[uint]int{}, min: map[uint]int{}, max: map[uint]int{}}
}

func (m *memRepo) ApplyDelta(_ context.Context, id uint, delta int, enforceMax bool) (*StockLevel, error) {
	cur, ok := m.stock[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if cur+delta < 0 {
		return nil, InsufficientStock(id)
	}
	if enforceMax && delta > 0 && m.max[id] > 0 && cur+delta > m.max[id] {
		return nil, ErrExceedsMaxStock
	}
	m.stock[id] = cur + delta
	return &StockLevel{ProductID: id, Previous: cur, New: cur + delta, MinStockLevel: m.min[id]}, nil
}

func (m *memRepo) AppendLog(_ context.Context, e *LogEntry) error {
	e.ID = uint(len(m.logs) + 1)
	m.logs = append(m.logs, e)
	return nil
}

func (m *memRepo) ListLogs(context.Context, uint, int, int) ([]*LogEntry, int64, error) {
	return m.logs, int64(len(m.logs)), nil
}

func (m *memRepo) ListLogsByReference(context.Context, uint) ([]*LogEntry, error) {
	return m.logs, nil
}

var admin = authz.Actor{ID: 1, Role: authz.RoleAdmin}

func TestAdjustStock_WritesOneLogEntry(t *testing.T) {
	repo := newMemRepo()
	repo.stock[1] = 5
	repo.min[1] = 2
	ledger := NewLedger(repo)

	ref := uint(100)
	change, err := ledger.AdjustStock(context.Background(), AdjustCommand{
		ProductID: 1, Delta: -3, Type: TypeOut, Reason: ReasonSale, Actor: admin, ReferenceID: &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, change.Previous)
	assert.Equal(t, 2, change.New)
	assert.True(t, change.LowStock)

	require.Len(t, repo.logs, 1)
	log := repo.logs[0]
	assert.Equal(t, TypeOut, log.Type)
	assert.Equal(t, -3, log.QuantityChange)
	assert.Equal(t, 5, log.PreviousQuantity)
	assert.Equal(t, 2, log.NewQuantity)
	assert.Equal(t, ReasonSale, log.Reason)
	assert.Equal(t, &ref, log.ReferenceID)
	assert.Equal(t, "ADMIN", log.ActorRole)
}

func TestAdjustStock_InsufficientStockWritesNothing(t *testing.T) {
	repo := newMemRepo()
	repo.stock[1] = 2
	ledger := NewLedger(repo)

	_, err := ledger.AdjustStock(context.Background(), AdjustCommand{
		ProductID: 1, Delta: -3, Type: TypeOut, Reason: ReasonSale, Actor: admin,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	pid, _ := apperrors.GetAppError(err).Field("product_id")
	assert.Equal(t, uint(1), pid)

	assert.Equal(t, 2, repo.stock[1])
	assert.Empty(t, repo.logs)
}

func TestAdjustStock_TypeRules(t *testing.T) {
	tests := []struct {
		name  string
		delta int
		typ   TransactionType
		want  error
	}{
		{"零变更", 0, TypeAdjustment, ErrZeroDelta},
		{"IN为负", -1, TypeIn, ErrDeltaSign},
		{"OUT为正", 1, TypeOut, ErrDeltaSign},
		{"未知类型", 1, TransactionType("MOVE"), ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			repo.stock[1] = 10
			_, err := NewLedger(repo).AdjustStock(context.Background(), AdjustCommand{
				ProductID: 1, Delta: tt.delta, Type: tt.typ, Reason: "x", Actor: admin,
			})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 10, repo.stock[1])
			assert.Empty(t, repo.logs)
		})
	}
}

func TestAdjustStock_AdjustmentBothDirections(t *testing.T) {
	repo := newMemRepo()
	repo.stock[1] = 10
	ledger := NewLedger(repo)
	ctx := context.Background()

	_, err := ledger.AdjustStock(ctx, AdjustCommand{ProductID: 1, Delta: -4, Type: TypeAdjustment, Reason: "盘点", Actor: admin})
	require.NoError(t, err)
	_, err = ledger.AdjustStock(ctx, AdjustCommand{ProductID: 1, Delta: 7, Type: TypeAdjustment, Reason: "盘点", Actor: admin})
	require.NoError(t, err)

	assert.Equal(t, 13, repo.stock[1])
	assert.Len(t, repo.logs, 2)
}

func TestAdjustStock_ReasonRequired(t *testing.T) {
	repo := newMemRepo()
	repo.stock[1] = 10
	_, err := NewLedger(repo).AdjustStock(context.Background(), AdjustCommand{
		ProductID: 1, Delta: 1, Type: TypeIn, Reason: "  ", Actor: admin,
	})
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestParseTransactionType(t *testing.T) {
	typ, ok := ParseTransactionType("adjustment")
	assert.True(t, ok)
	assert.Equal(t, TypeAdjustment, typ)

	_, ok = ParseTransactionType("")
	assert.False(t, ok)
}
