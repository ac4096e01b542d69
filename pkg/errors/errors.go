package errors

import (
	"context"
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
// 4. Fields是定位问题实体的附加信息（如product_id），会返回给客户端
type AppError struct {
	Code    int                    `json:"code"`             // 业务错误码
	Message string                 `json:"message"`          // 用户友好的错误提示
	Fields  map[string]interface{} `json:"fields,omitempty"` // 出错实体信息
	Err     error                  `json:"-"`                // 内部错误（不序列化）

	// origin 派生错误指向的预定义错误，用于errors.Is匹配
	origin *AppError
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 派生错误（WithField/WithErr）与其预定义错误视为同一种错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.root() == t.root()
}

func (e *AppError) root() *AppError {
	if e.origin != nil {
		return e.origin
	}
	return e
}

// WithField 派生一个携带附加字段的错误，不修改预定义错误本身
func (e *AppError) WithField(key string, value interface{}) *AppError {
	fields := make(map[string]interface{}, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[key] = value
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Fields:  fields,
		Err:     e.Err,
		origin:  e.root(),
	}
}

// WithErr 派生一个携带内部错误的错误
func (e *AppError) WithErr(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Fields:  e.Fields,
		Err:     err,
		origin:  e.root(),
	}
}

// Field 读取附加字段
func (e *AppError) Field(key string) (interface{}, bool) {
	v, ok := e.Fields[key]
	return v, ok
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Persistence 包装存储层错误
// 超时和取消同样归为PersistenceError，调用方可以重试
func Persistence(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
		origin:  ErrDatabaseError,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal            = 50000 // 内部错误
	ErrCodeDatabaseError       = 50001 // 数据库错误（可重试）
	ErrCodeRedisError          = 50002 // Redis错误
	ErrCodeConcurrencyConflict = 50003 // 并发冲突，重试次数耗尽（可重试）

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized = 40100 // 未登录
	ErrCodeInvalidToken = 40101 // Token无效
	ErrCodeTokenExpired = 40102 // Token过期
	ErrCodeForbidden    = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeProductNotFound  = 40402 // 商品不存在
	ErrCodeOrderNotFound    = 40403 // 订单不存在
	ErrCodeCartLineNotFound = 40404 // 购物车条目不存在
	ErrCodeAccountNotFound  = 40405 // 账户不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError      = 40000 // 业务错误(通用)
	ErrCodeInsufficientStock  = 40001 // 库存不足
	ErrCodeInvalidOrderStatus = 40002 // 订单状态流转非法
	ErrCodeEmptyCart          = 40006 // 购物车为空
	ErrCodeInsufficientFunds  = 40007 // 余额不足
	ErrCodeNoActiveAccount    = 40008 // 没有可用账户
	ErrCodeDuplicateEntry     = 40009 // 重复记录(通用)

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal            = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError       = New(ErrCodeDatabaseError, "数据库错误，请稍后重试")
	ErrRedisError          = New(ErrCodeRedisError, "缓存服务错误")
	ErrConcurrencyConflict = New(ErrCodeConcurrencyConflict, "并发冲突，请稍后重试")

	// 认证授权
	ErrUnauthorized = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired = New(ErrCodeTokenExpired, "Token已过期")
	ErrForbidden    = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrNotFound = New(ErrCodeNotFound, "资源不存在")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Persistence(err, "请求超时，请稍后重试")
	}
	return Wrap(err, "系统内部错误")
}

// IsRetryable 判断错误是否可重试（存储不可用、超时、并发冲突）
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch GetAppError(err).Code {
	case ErrCodeDatabaseError, ErrCodeConcurrencyConflict:
		return true
	default:
		return false
	}
}
