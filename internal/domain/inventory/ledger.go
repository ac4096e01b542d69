package inventory

import (
	"context"
	"strings"

	"github.com/xiebiao/electromart/pkg/authz"
)

// AdjustCommand 库存变更命令
type AdjustCommand struct {
	ProductID   uint
	Delta       int // 带符号
	Type        TransactionType
	Reason      string
	Actor       authz.Actor
	ReferenceID *uint

	// EnforceMax 是否校验最大库存
	// 人工入库/盘点时校验;取消订单回补的是已售出的数量,不校验
	EnforceMax bool
}

// Ledger 库存台账服务
// 设计说明:
// 1. 库存变更的唯一入口,条件更新和台账写入必须在同一事务中(调用方通过ctx传入事务)
// 2. 只有条件更新成功才写台账,保证"一次变更一条记录"
// 3. Ledger本身不开事务,由上层用例决定事务边界(下单、取消订单、人工调整)
type Ledger struct {
	repo Repository
}

// NewLedger 创建库存台账服务
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// AdjustStock 调整库存并记录台账
func (l *Ledger) AdjustStock(ctx context.Context, cmd AdjustCommand) (*StockChange, error) {
	if err := validate(cmd); err != nil {
		return nil, err
	}

	level, err := l.repo.ApplyDelta(ctx, cmd.ProductID, cmd.Delta, cmd.EnforceMax)
	if err != nil {
		return nil, err
	}

	entry := &LogEntry{
		ProductID:        cmd.ProductID,
		Type:             cmd.Type,
		QuantityChange:   cmd.Delta,
		PreviousQuantity: level.Previous,
		NewQuantity:      level.New,
		Reason:           strings.TrimSpace(cmd.Reason),
		ReferenceID:      cmd.ReferenceID,
		ActorID:          cmd.Actor.ID,
		ActorRole:        string(cmd.Actor.Role),
	}
	if err := l.repo.AppendLog(ctx, entry); err != nil {
		return nil, err
	}

	return &StockChange{
		ProductID: cmd.ProductID,
		Previous:  level.Previous,
		New:       level.New,
		LowStock:  level.New <= level.MinStockLevel,
	}, nil
}

// validate 类型规则:
//   - delta不能为0
//   - IN必须为正,OUT必须为负,ADJUSTMENT可正可负
func validate(cmd AdjustCommand) error {
	if cmd.Delta == 0 {
		return ErrZeroDelta
	}
	switch cmd.Type {
	case TypeIn:
		if cmd.Delta < 0 {
			return ErrDeltaSign
		}
	case TypeOut:
		if cmd.Delta > 0 {
			return ErrDeltaSign
		}
	case TypeAdjustment:
	default:
		return ErrInvalidType
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		return ErrReasonRequired
	}
	return nil
}
