package order

import (
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")

	// ErrInvalidStatus 未知的订单状态
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的订单状态")

	// ErrInvalidPaymentMethod 不支持的支付方式
	ErrInvalidPaymentMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的支付方式")

	// ErrShippingAddressRequired 缺少收货地址
	ErrShippingAddressRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "收货地址不能为空")

	// ErrInvalidAmount 运费/折扣不合法
	ErrInvalidAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "金额不合法")
)

// InvalidTransition 构造带from/to信息的状态流转错误
func InvalidTransition(from, to Status) *apperrors.AppError {
	return ErrInvalidStatusTransition.
		WithField("from", from.String()).
		WithField("to", to.String())
}
