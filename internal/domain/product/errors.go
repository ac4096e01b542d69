package product

import (
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// 商品领域错误定义
var (
	// ErrProductNotFound 商品不存在(已下架的商品同样视为不存在)
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrSKUDuplicate SKU已存在
	ErrSKUDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "SKU已存在")

	// ErrNoFieldsToUpdate 没有需要更新的字段
	ErrNoFieldsToUpdate = apperrors.New(apperrors.ErrCodeInvalidParams, "没有需要更新的字段")

	// ErrFieldNotAllowed 字段不允许更新
	ErrFieldNotAllowed = apperrors.New(apperrors.ErrCodeInvalidParams, "字段不允许更新")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")

	// ErrInvalidStockLevel 库存上下限不合法
	ErrInvalidStockLevel = apperrors.New(apperrors.ErrCodeInvalidParams, "库存上下限不合法")

	// ErrInvalidName 名称不能为空
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "名称不能为空")
)
