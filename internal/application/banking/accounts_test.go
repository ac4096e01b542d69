package banking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bankingapp "github.com/xiebiao/electromart/internal/application/banking"
	"github.com/xiebiao/electromart/internal/domain/banking"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/electromart/internal/testutil"
	"github.com/xiebiao/electromart/pkg/authz"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

func TestListAccounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewBankingRepository(db)
	uc := bankingapp.NewListAccountsUseCase(repo)
	ctx := context.Background()

	testutil.SeedAccount(t, db, testutil.AccountSeed{CustomerID: 1, Balance: 1000})
	testutil.SeedAccount(t, db, testutil.AccountSeed{CustomerID: 1, Type: "CREDIT", Balance: -200, CreditLimit: 5000})
	testutil.SeedAccount(t, db, testutil.AccountSeed{CustomerID: 2, Balance: 1000})

	list, err := uc.Execute(ctx, authz.Actor{ID: 1, Role: authz.RoleCustomer}, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "CHECKING", list[0].AccountType)
	assert.Equal(t, int64(1000), list[0].AvailableFunds)
	assert.Equal(t, "CREDIT", list[1].AccountType)
	assert.Equal(t, int64(4800), list[1].AvailableFunds)

	_, err = uc.Execute(ctx, authz.Actor{ID: 2, Role: authz.RoleCustomer}, 1)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	list, err = uc.Execute(ctx, authz.Actor{ID: 9, Role: authz.RoleEmployee}, 2)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListTransactions(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewBankingRepository(db)
	bridge := banking.NewBridge(repo)
	uc := bankingapp.NewListTransactionsUseCase(repo)
	ctx := context.Background()

	account := testutil.SeedAccount(t, db, testutil.AccountSeed{CustomerID: 1, Balance: 10000})
	_, err := bridge.RecordDebit(ctx, 1, 1500, banking.OrderRef{ID: 11, Number: "ORD-20260101-AAAAAAAA"})
	require.NoError(t, err)
	_, err = bridge.RecordDebit(ctx, 1, 2500, banking.OrderRef{ID: 12, Number: "ORD-20260101-BBBBBBBB"})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, bankingapp.ListTransactionsRequest{
		Actor: authz.Actor{ID: 1, Role: authz.RoleCustomer}, AccountID: account,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.List, 2)
	assert.Equal(t, "DEBIT", resp.List[0].Type)
	assert.Equal(t, int64(6000), resp.List[0].BalanceAfter, "最新的在前")
	assert.Equal(t, "Payment for Order ORD-20260101-BBBBBBBB", resp.List[0].Description)

	_, err = uc.Execute(ctx, bankingapp.ListTransactionsRequest{
		Actor: authz.Actor{ID: 2, Role: authz.RoleCustomer}, AccountID: account,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = uc.Execute(ctx, bankingapp.ListTransactionsRequest{
		Actor: authz.Actor{ID: 1, Role: authz.RoleCustomer}, AccountID: 999,
	})
	assert.ErrorIs(t, err, banking.ErrAccountNotFound)
}
