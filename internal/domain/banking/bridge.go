package banking

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Bridge 支付台账桥
// 下单时从客户内部账户扣款并记录流水,不对接任何外部支付网关。
// 和库存台账一样不开事务,扣款和流水跟随调用方的事务一起提交或回滚。
type Bridge struct {
	repo Repository
	now  func() time.Time
}

// NewBridge 创建支付台账桥
func NewBridge(repo Repository) *Bridge {
	return &Bridge{repo: repo, now: time.Now}
}

// RecordDebit 扣款
// 1. 选择客户第一个ACTIVE账户
// 2. 条件扣款(普通账户不能透支,信用账户不超过额度)
// 3. 追加DEBIT流水,描述为"Payment for Order <订单号>"
func (b *Bridge) RecordDebit(ctx context.Context, customerID uint, amount int64, ref OrderRef) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	account, err := b.repo.FirstActiveAccount(ctx, customerID)
	if err != nil {
		return nil, err
	}

	balanceAfter, err := b.repo.Debit(ctx, account.ID, amount)
	if err != nil {
		return nil, err
	}

	orderID := ref.ID
	tx := &Transaction{
		TransactionNo:  b.transactionNo(),
		AccountID:      account.ID,
		Type:           TransactionDebit,
		Amount:         amount,
		BalanceAfter:   balanceAfter,
		Description:    fmt.Sprintf("Payment for Order %s", ref.Number),
		RelatedOrderID: &orderID,
	}
	if err := b.repo.AppendTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// transactionNo 流水号: TXN + yyyymmddhhmmss + 6位随机数
// 唯一索引兜底,冲突时整个事务回滚由调用方重试
func (b *Bridge) transactionNo() string {
	return fmt.Sprintf("TXN%s%06d", b.now().Format("20060102150405"), rand.Intn(1000000))
}
