package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errStockTest = New(ErrCodeInsufficientStock, "库存不足")

func TestWithField_KeepsIdentity(t *testing.T) {
	derived := errStockTest.WithField("product_id", uint(42))

	assert.True(t, errors.Is(derived, errStockTest))
	assert.False(t, errors.Is(derived, ErrNotFound))

	v, ok := derived.Field("product_id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), v)

	// 预定义错误本身不被修改
	assert.Nil(t, errStockTest.Fields)

	// 多次派生仍能匹配
	twice := derived.WithErr(fmt.Errorf("boom"))
	assert.True(t, errors.Is(twice, errStockTest))
	assert.Equal(t, uint(42), twice.Fields["product_id"])
}

func TestIs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", errStockTest.WithField("product_id", 1))
	assert.True(t, errors.Is(wrapped, errStockTest))

	appErr := GetAppError(wrapped)
	assert.Equal(t, ErrCodeInsufficientStock, appErr.Code)
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(errors.New("raw"))
	assert.Equal(t, ErrCodeInternal, appErr.Code)

	appErr = GetAppError(context.DeadlineExceeded)
	assert.Equal(t, ErrCodeDatabaseError, appErr.Code)
	assert.True(t, errors.Is(appErr, ErrDatabaseError))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(Persistence(errors.New("conn refused"), "数据库错误")))
	assert.True(t, IsRetryable(ErrConcurrencyConflict))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(errStockTest))
	assert.False(t, IsRetryable(ErrInvalidParams))
}

func TestError(t *testing.T) {
	assert.Equal(t, "[40900] 参数错误", ErrInvalidParams.Error())
	err := Wrap(errors.New("dial tcp"), "连接失败")
	assert.Equal(t, "[50000] 连接失败: dial tcp", err.Error())
	assert.ErrorContains(t, err, "dial tcp")
}
