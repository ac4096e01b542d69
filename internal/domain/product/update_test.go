package product

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCheckAllowed(t *testing.T) {
	assert.NoError(t, CheckAllowed([]string{"name", "price", "is_active"}))

	err := CheckAllowed([]string{"price", "stock_quantity", "id"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldNotAllowed))
}

func TestUpdateRequest_Changes(t *testing.T) {
	current := NewProduct("SKU-1", "Phone", "Acme", 99900, 70000)

	changes, err := UpdateRequest{
		Name:     ptr("  Phone X "),
		Price:    ptr(int64(109900)),
		IsActive: ptr(false),
	}.Changes(current)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		FieldName:     "Phone X",
		FieldPrice:    int64(109900),
		FieldIsActive: false,
	}, changes)
}

func TestUpdateRequest_Invalid(t *testing.T) {
	current := NewProduct("SKU-1", "Phone", "Acme", 99900, 70000)

	tests := []struct {
		name string
		req  UpdateRequest
		want error
	}{
		{"空请求", UpdateRequest{}, ErrNoFieldsToUpdate},
		{"空名称", UpdateRequest{Name: ptr("  ")}, ErrInvalidName},
		{"零价格", UpdateRequest{Price: ptr(int64(0))}, ErrInvalidPrice},
		{"负成本", UpdateRequest{CostPrice: ptr(int64(-1))}, ErrInvalidPrice},
		{"下限为负", UpdateRequest{MinStockLevel: ptr(-1)}, ErrInvalidStockLevel},
		{"上限小于现有下限", UpdateRequest{MaxStockLevel: ptr(5)}, ErrInvalidStockLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Changes(current)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateRequest_StockLevelsTogether(t *testing.T) {
	current := NewProduct("SKU-1", "Phone", "Acme", 99900, 70000)
	changes, err := UpdateRequest{MinStockLevel: ptr(2), MaxStockLevel: ptr(5)}.Changes(current)
	require.NoError(t, err)
	assert.Equal(t, 2, changes[FieldMinStockLevel])
	assert.Equal(t, 5, changes[FieldMaxStockLevel])

	// 上限为0表示不限制
	_, err = UpdateRequest{MaxStockLevel: ptr(0)}.Changes(current)
	assert.NoError(t, err)
}

func TestProduct_LowStock(t *testing.T) {
	p := NewProduct("SKU-1", "Phone", "Acme", 100, 50)
	p.StockQuantity = 10
	assert.True(t, p.IsLowStock())
	assert.Equal(t, 0, p.Shortage())
	p.StockQuantity = 11
	assert.False(t, p.IsLowStock())
	assert.True(t, p.HasStock(11))
	assert.False(t, p.HasStock(12))
}
