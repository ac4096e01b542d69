package banking

import (
	"context"
)

// Repository 账户仓储接口
type Repository interface {
	// FirstActiveAccount 客户的第一个ACTIVE账户(按ID),没有返回ErrNoActiveAccount
	FirstActiveAccount(ctx context.Context, customerID uint) (*Account, error)

	// Debit 条件扣款
	//   UPDATE banking_accounts SET balance = balance - ?
	//   WHERE id = ? AND status = 'ACTIVE' AND balance - ? >= 下限
	// 影响0行返回ErrInsufficientFunds;成功返回扣款后余额
	Debit(ctx context.Context, accountID uint, amount int64) (int64, error)

	// AppendTransaction 追加流水
	AppendTransaction(ctx context.Context, tx *Transaction) error

	// FindAccount 根据ID查找账户
	FindAccount(ctx context.Context, id uint) (*Account, error)

	// ListAccounts 客户的全部账户
	ListAccounts(ctx context.Context, customerID uint) ([]*Account, error)

	// ListTransactions 账户流水分页(新的在前)
	ListTransactions(ctx context.Context, accountID uint, page, pageSize int) ([]*Transaction, int64, error)

	// FindByOrder 订单关联的流水
	FindByOrder(ctx context.Context, orderID uint) ([]*Transaction, error)
}
