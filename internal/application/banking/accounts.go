// Package banking 客户账户查询用例
package banking

import (
	"context"
	"time"

	"github.com/xiebiao/electromart/internal/domain/banking"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// ReadRoles 查询账户需要的角色(客户只能看自己的)
var ReadRoles = authz.Everyone

// AccountDTO 账户信息
type AccountDTO struct {
	ID             uint   `json:"id"`
	AccountNumber  string `json:"account_number"`
	AccountType    string `json:"account_type"`
	Balance        int64  `json:"balance"`
	CreditLimit    int64  `json:"credit_limit"`
	AvailableFunds int64  `json:"available_funds"`
	Status         string `json:"status"`
	OpenedAt       string `json:"opened_at"`
}

// TransactionDTO 流水
type TransactionDTO struct {
	ID             uint   `json:"id"`
	TransactionNo  string `json:"transaction_no"`
	Type           string `json:"transaction_type"`
	Amount         int64  `json:"amount"`
	BalanceAfter   int64  `json:"balance_after"`
	Description    string `json:"description"`
	RelatedOrderID *uint  `json:"related_order_id,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// ListAccountsUseCase 客户账户列表
type ListAccountsUseCase struct {
	repo banking.Repository
}

// NewListAccountsUseCase 创建账户列表用例
func NewListAccountsUseCase(repo banking.Repository) *ListAccountsUseCase {
	return &ListAccountsUseCase{repo: repo}
}

// Execute 查询客户的全部账户
func (uc *ListAccountsUseCase) Execute(ctx context.Context, actor authz.Actor, customerID uint) (_ []AccountDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "banking.ListAccounts")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(actor.Role, ReadRoles); err != nil {
		return nil, err
	}
	if err := authz.RequireSelfOrStaff(actor, customerID); err != nil {
		return nil, err
	}

	accounts, err := uc.repo.ListAccounts(ctx, customerID)
	if err != nil {
		return nil, err
	}

	list := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		list[i] = AccountDTO{
			ID:             a.ID,
			AccountNumber:  a.AccountNumber,
			AccountType:    string(a.Type),
			Balance:        a.Balance,
			CreditLimit:    a.CreditLimit,
			AvailableFunds: a.AvailableFunds(),
			Status:         string(a.Status),
			OpenedAt:       a.OpenedAt.Format(time.DateTime),
		}
	}
	return list, nil
}

// ListTransactionsUseCase 账户流水
type ListTransactionsUseCase struct {
	repo banking.Repository
}

// NewListTransactionsUseCase 创建流水查询用例
func NewListTransactionsUseCase(repo banking.Repository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{repo: repo}
}

// ListTransactionsRequest 流水查询请求
type ListTransactionsRequest struct {
	Actor     authz.Actor
	AccountID uint
	Page      int
	PageSize  int
}

// ListTransactionsResponse 流水列表
type ListTransactionsResponse struct {
	List  []TransactionDTO `json:"list"`
	Total int64            `json:"total"`
}

// Execute 分页查询账户流水(新的在前)
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, req ListTransactionsRequest) (_ *ListTransactionsResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "banking.ListTransactions")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(req.Actor.Role, ReadRoles); err != nil {
		return nil, err
	}

	account, err := uc.repo.FindAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireSelfOrStaff(req.Actor, account.CustomerID); err != nil {
		return nil, err
	}

	txs, total, err := uc.repo.ListTransactions(ctx, account.ID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]TransactionDTO, len(txs))
	for i, t := range txs {
		list[i] = TransactionDTO{
			ID:             t.ID,
			TransactionNo:  t.TransactionNo,
			Type:           string(t.Type),
			Amount:         t.Amount,
			BalanceAfter:   t.BalanceAfter,
			Description:    t.Description,
			RelatedOrderID: t.RelatedOrderID,
			CreatedAt:      t.CreatedAt.Format(time.DateTime),
		}
	}
	return &ListTransactionsResponse{List: list, Total: total}, nil
}
