package banking

import (
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// 账户领域错误定义
var (
	// ErrNoActiveAccount 客户没有可用账户
	ErrNoActiveAccount = apperrors.New(apperrors.ErrCodeNoActiveAccount, "没有可用的支付账户")

	// ErrInsufficientFunds 余额不足
	ErrInsufficientFunds = apperrors.New(apperrors.ErrCodeInsufficientFunds, "账户余额不足")

	// ErrAccountNotFound 账户不存在
	ErrAccountNotFound = apperrors.New(apperrors.ErrCodeAccountNotFound, "账户不存在")

	// ErrInvalidAmount 扣款金额必须大于0
	ErrInvalidAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "扣款金额必须大于0")
)
