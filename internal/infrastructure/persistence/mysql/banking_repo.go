package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/electromart/internal/domain/banking"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// bankingRepository 账户仓储实现
type bankingRepository struct {
	db *gorm.DB
}

// NewBankingRepository 创建账户仓储
func NewBankingRepository(db *gorm.DB) banking.Repository {
	return &bankingRepository{db: db}
}

// FirstActiveAccount 客户第一个ACTIVE账户
func (r *bankingRepository) FirstActiveAccount(ctx context.Context, customerID uint) (*banking.Account, error) {
	var model BankingAccountModel
	err := r.getDB(ctx).
		Where("customer_id = ? AND status = ?", customerID, string(banking.AccountActive)).
		Order("id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, banking.ErrNoActiveAccount.WithField("customer_id", customerID)
		}
		return nil, apperrors.Persistence(err, "查询账户失败")
	}
	return toAccountEntity(&model), nil
}

// Debit 条件扣款
// 和库存扣减同一个思路:余额检查和扣款在一条UPDATE里完成
//
//	UPDATE banking_accounts SET balance = balance - ?
//	WHERE id = ? AND status = 'ACTIVE'
//	  AND balance - ? >= CASE WHEN account_type = 'CREDIT' THEN -credit_limit ELSE 0 END
func (r *bankingRepository) Debit(ctx context.Context, accountID uint, amount int64) (int64, error) {
	db := r.getDB(ctx)

	result := db.Model(&BankingAccountModel{}).
		Where("id = ? AND status = ?", accountID, string(banking.AccountActive)).
		Where("balance - ? >= CASE WHEN account_type = ? THEN -credit_limit ELSE 0 END", amount, string(banking.AccountCredit)).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, apperrors.Persistence(result.Error, "扣款失败")
	}
	if result.RowsAffected == 0 {
		return 0, banking.ErrInsufficientFunds.
			WithField("account_id", accountID).
			WithField("amount", amount)
	}

	var model BankingAccountModel
	if err := db.Select("id", "balance").First(&model, accountID).Error; err != nil {
		return 0, apperrors.Persistence(err, "查询账户余额失败")
	}
	return model.Balance, nil
}

// AppendTransaction 追加流水
func (r *bankingRepository) AppendTransaction(ctx context.Context, t *banking.Transaction) error {
	model := &BankingTransactionModel{
		TransactionNo:   t.TransactionNo,
		AccountID:       t.AccountID,
		TransactionType: string(t.Type),
		Amount:          t.Amount,
		BalanceAfter:    t.BalanceAfter,
		Description:     t.Description,
		RelatedOrderID:  t.RelatedOrderID,
	}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			// 流水号冲突,事务整体重试
			return apperrors.ErrConcurrencyConflict.WithErr(err)
		}
		return apperrors.Persistence(err, "写入账户流水失败")
	}
	t.ID = model.ID
	t.CreatedAt = model.CreatedAt
	return nil
}

// FindAccount 根据ID查找账户
func (r *bankingRepository) FindAccount(ctx context.Context, id uint) (*banking.Account, error) {
	var model BankingAccountModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, banking.ErrAccountNotFound.WithField("account_id", id)
		}
		return nil, apperrors.Persistence(err, "查询账户失败")
	}
	return toAccountEntity(&model), nil
}

// ListAccounts 客户的全部账户
func (r *bankingRepository) ListAccounts(ctx context.Context, customerID uint) ([]*banking.Account, error) {
	var models []BankingAccountModel
	if err := r.getDB(ctx).Where("customer_id = ?", customerID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Persistence(err, "查询账户失败")
	}
	accounts := make([]*banking.Account, len(models))
	for i := range models {
		accounts[i] = toAccountEntity(&models[i])
	}
	return accounts, nil
}

// ListTransactions 账户流水分页
func (r *bankingRepository) ListTransactions(ctx context.Context, accountID uint, page, pageSize int) ([]*banking.Transaction, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	query := r.getDB(ctx).Model(&BankingTransactionModel{}).Where("account_id = ?", accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Persistence(err, "查询账户流水总数失败")
	}

	var models []BankingTransactionModel
	if err := query.Order("id DESC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Persistence(err, "查询账户流水失败")
	}
	return toTransactionEntities(models), total, nil
}

// FindByOrder 订单关联的流水
func (r *bankingRepository) FindByOrder(ctx context.Context, orderID uint) ([]*banking.Transaction, error) {
	var models []BankingTransactionModel
	if err := r.getDB(ctx).Where("related_order_id = ?", orderID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Persistence(err, "查询账户流水失败")
	}
	return toTransactionEntities(models), nil
}

func toAccountEntity(model *BankingAccountModel) *banking.Account {
	return &banking.Account{
		ID:            model.ID,
		CustomerID:    model.CustomerID,
		AccountNumber: model.AccountNumber,
		Type:          banking.AccountType(model.AccountType),
		Balance:       model.Balance,
		CreditLimit:   model.CreditLimit,
		Status:        banking.AccountStatus(model.Status),
		OpenedAt:      model.OpenedAt,
	}
}

func toTransactionEntities(models []BankingTransactionModel) []*banking.Transaction {
	txs := make([]*banking.Transaction, len(models))
	for i, m := range models {
		txs[i] = &banking.Transaction{
			ID:             m.ID,
			TransactionNo:  m.TransactionNo,
			AccountID:      m.AccountID,
			Type:           banking.TransactionType(m.TransactionType),
			Amount:         m.Amount,
			BalanceAfter:   m.BalanceAfter,
			Description:    m.Description,
			RelatedOrderID: m.RelatedOrderID,
			CreatedAt:      m.CreatedAt,
		}
	}
	return txs
}

func (r *bankingRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}
