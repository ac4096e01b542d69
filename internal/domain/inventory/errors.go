package inventory

import (
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// 库存领域错误定义
var (
	// ErrInsufficientStock 库存不足(通过WithField("product_id", id)携带商品)
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrZeroDelta 变更数量为0
	ErrZeroDelta = apperrors.New(apperrors.ErrCodeInvalidParams, "库存变更数量不能为0")

	// ErrDeltaSign 变更数量的符号与类型不符(IN必须为正,OUT必须为负)
	ErrDeltaSign = apperrors.New(apperrors.ErrCodeInvalidParams, "库存变更数量与类型不符")

	// ErrInvalidType 未知的变更类型
	ErrInvalidType = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的库存变更类型")

	// ErrExceedsMaxStock 超过最大库存
	ErrExceedsMaxStock = apperrors.New(apperrors.ErrCodeInvalidParams, "超过最大库存")

	// ErrReasonRequired 缺少变更原因
	ErrReasonRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "库存变更必须填写原因")
)

// InsufficientStock 构造带商品ID的库存不足错误
func InsufficientStock(productID uint) *apperrors.AppError {
	return ErrInsufficientStock.WithField("product_id", productID)
}
