package mysql

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// txKey context中事务DB的键
type txKey struct{}

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 每个事务有超时时间,超时返回PersistenceError(可重试)
// 4. 死锁/锁等待超时时整个事务重试,重试耗尽返回ConcurrencyConflict
type TxManager struct {
	db         *gorm.DB
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// TxOption 事务管理器选项
type TxOption func(*TxManager)

// WithTimeout 单个事务的超时时间(包含重试)
func WithTimeout(d time.Duration) TxOption {
	return func(m *TxManager) { m.timeout = d }
}

// WithMaxRetries 冲突重试次数
func WithMaxRetries(n int) TxOption {
	return func(m *TxManager) { m.maxRetries = n }
}

// WithLogger 设置日志
func WithLogger(l *zap.Logger) TxOption {
	return func(m *TxManager) { m.logger = l }
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB, opts ...TxOption) *TxManager {
	m := &TxManager{
		db:         db,
		timeout:    10 * time.Second,
		maxRetries: 3,
		backoff:    20 * time.Millisecond,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Transaction 执行事务
// 教学要点:
// 1. fn函数内的所有Repository操作都会在同一事务中执行
// 2. fn返回error时自动ROLLBACK,返回nil时自动COMMIT
// 3. 已经在事务中时直接复用外层事务
// 4. fn可能被执行多次(冲突重试),不要在fn里做发消息、写缓存这类不可回滚的操作
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := orderRepo.Create(ctx, o); err != nil {
//	        return err // 自动回滚
//	    }
//	    _, err := ledger.AdjustStock(ctx, cmd)
//	    return err // nil则提交,非nil则回滚
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	for attempt := 0; ; attempt++ {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// 将事务DB注入到Context中,Repository的getDB从context提取
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
		if err == nil {
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.Persistence(errors.Join(ctxErr, err), "数据库操作超时，请稍后重试")
		}

		if !isConflict(err) {
			return translateError(err)
		}

		if attempt >= m.maxRetries {
			m.logger.Warn("事务冲突重试耗尽", zap.Int("attempts", attempt+1), zap.Error(err))
			return apperrors.ErrConcurrencyConflict.WithErr(err)
		}

		m.logger.Debug("事务冲突,准备重试", zap.Int("attempt", attempt+1), zap.Error(err))
		select {
		case <-time.After(m.backoff * time.Duration(attempt+1)):
		case <-ctx.Done():
			return apperrors.Persistence(ctx.Err(), "数据库操作超时，请稍后重试")
		}
	}
}

// translateError 业务错误原样返回,其余归为PersistenceError
func translateError(err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.Persistence(err, "数据库操作超时，请稍后重试")
	}
	return apperrors.Persistence(err, "数据库错误，请稍后重试")
}

// dbFromContext 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制,所有仓储共用
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
