package banking

import (
	"time"
)

// AccountType 账户类型
type AccountType string

const (
	AccountChecking AccountType = "CHECKING"
	AccountSavings  AccountType = "SAVINGS"
	AccountCredit   AccountType = "CREDIT" // 信用账户,余额可透支到-CreditLimit
)

// AccountStatus 账户状态
type AccountStatus string

const (
	AccountActive AccountStatus = "ACTIVE"
	AccountFrozen AccountStatus = "FROZEN"
	AccountClosed AccountStatus = "CLOSED"
)

// TransactionType 流水类型(目前只有扣款)
type TransactionType string

const (
	TransactionDebit TransactionType = "DEBIT"
)

// Account 客户内部账户
type Account struct {
	ID            uint
	CustomerID    uint
	AccountNumber string
	Type          AccountType
	Balance       int64 // 分,信用账户可为负
	CreditLimit   int64
	Status        AccountStatus
	OpenedAt      time.Time
}

// AvailableFunds 可用额度
func (a *Account) AvailableFunds() int64 {
	if a.Type == AccountCredit {
		return a.Balance + a.CreditLimit
	}
	return a.Balance
}

// Floor 余额下限(扣款后余额不能低于该值)
func (a *Account) Floor() int64 {
	if a.Type == AccountCredit {
		return -a.CreditLimit
	}
	return 0
}

// Transaction 账户流水(只追加)
type Transaction struct {
	ID             uint
	TransactionNo  string
	AccountID      uint
	Type           TransactionType
	Amount         int64
	BalanceAfter   int64
	Description    string
	RelatedOrderID *uint
	CreatedAt      time.Time
}

// OrderRef 扣款关联的订单
type OrderRef struct {
	ID     uint
	Number string
}
