package banking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	Repository
	accounts []*Account
	txs      []*Transaction
}

func (m *memRepo) FirstActiveAccount(_ context.Context, customerID uint) (*Account, error) {
	for _, a := range m.accounts {
		if a.CustomerID == customerID && a.Status == AccountActive {
			return a, nil
		}
	}
	return nil, ErrNoActiveAccount
}

func (m *memRepo) Debit(_ context.Context, id uint, amount int64) (int64, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			if a.Balance-amount < a.Floor() {
				return 0, ErrInsufficientFunds
			}
			a.Balance -= amount
			return a.Balance, nil
		}
	}
	return 0, ErrAccountNotFound
}

func (m *memRepo) AppendTransaction(_ context.Context, tx *Transaction) error {
	m.txs = append(m.txs, tx)
	return nil
}

func newBridge(repo Repository) *Bridge {
	b := NewBridge(repo)
	b.now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }
	return b
}

func TestRecordDebit(t *testing.T) {
	repo := &memRepo{accounts: []*Account{
		{ID: 1, CustomerID: 7, Type: AccountChecking, Balance: 500, Status: AccountFrozen},
		{ID: 2, CustomerID: 7, Type: AccountChecking, Balance: 20000, Status: AccountActive},
		{ID: 3, CustomerID: 7, Type: AccountSavings, Balance: 90000, Status: AccountActive},
	}}

	tx, err := newBridge(repo).RecordDebit(context.Background(), 7, 10800, OrderRef{ID: 11, Number: "ORD-20240315-AAAA0000"})
	require.NoError(t, err)

	// 跳过冻结账户,使用第一个ACTIVE账户
	assert.Equal(t, uint(2), tx.AccountID)
	assert.Equal(t, int64(9200), tx.BalanceAfter)
	assert.Equal(t, TransactionDebit, tx.Type)
	assert.Equal(t, "Payment for Order ORD-20240315-AAAA0000", tx.Description)
	assert.Equal(t, uint(11), *tx.RelatedOrderID)
	assert.Regexp(t, `^TXN20240315103000\d{6}$`, tx.TransactionNo)
	assert.Len(t, repo.txs, 1)
}

func TestRecordDebit_NoActiveAccount(t *testing.T) {
	repo := &memRepo{accounts: []*Account{{ID: 1, CustomerID: 7, Status: AccountClosed}}}
	_, err := newBridge(repo).RecordDebit(context.Background(), 7, 100, OrderRef{ID: 1})
	assert.ErrorIs(t, err, ErrNoActiveAccount)
	assert.Empty(t, repo.txs)
}

func TestRecordDebit_InsufficientFunds(t *testing.T) {
	repo := &memRepo{accounts: []*Account{{ID: 1, CustomerID: 7, Type: AccountChecking, Balance: 100, Status: AccountActive}}}
	_, err := newBridge(repo).RecordDebit(context.Background(), 7, 101, OrderRef{ID: 1})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(100), repo.accounts[0].Balance)
	assert.Empty(t, repo.txs)
}

func TestRecordDebit_CreditLimit(t *testing.T) {
	repo := &memRepo{accounts: []*Account{{ID: 1, CustomerID: 7, Type: AccountCredit, Balance: 0, CreditLimit: 5000, Status: AccountActive}}}
	b := newBridge(repo)

	tx, err := b.RecordDebit(context.Background(), 7, 5000, OrderRef{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(-5000), tx.BalanceAfter)

	_, err = b.RecordDebit(context.Background(), 7, 1, OrderRef{ID: 2})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestRecordDebit_InvalidAmount(t *testing.T) {
	_, err := newBridge(&memRepo{}).RecordDebit(context.Background(), 7, 0, OrderRef{})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAccount_Funds(t *testing.T) {
	credit := &Account{Type: AccountCredit, Balance: -100, CreditLimit: 1000}
	assert.Equal(t, int64(900), credit.AvailableFunds())
	assert.Equal(t, int64(-1000), credit.Floor())

	checking := &Account{Type: AccountChecking, Balance: 300}
	assert.Equal(t, int64(300), checking.AvailableFunds())
	assert.Equal(t, int64(0), checking.Floor())
}
