package cart

import (
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrLineNotFound 购物车条目不存在
	ErrLineNotFound = apperrors.New(apperrors.ErrCodeCartLineNotFound, "购物车条目不存在")

	// ErrInvalidQuantity 数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车为空")
)
