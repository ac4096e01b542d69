package handler

import (
	"github.com/gin-gonic/gin"

	appbanking "github.com/xiebiao/electromart/internal/application/banking"
	"github.com/xiebiao/electromart/internal/interface/http/dto"
	"github.com/xiebiao/electromart/internal/interface/http/middleware"
	"github.com/xiebiao/electromart/pkg/response"
)

// BankingHandler 账户HTTP处理器
type BankingHandler struct {
	accounts     *appbanking.ListAccountsUseCase
	transactions *appbanking.ListTransactionsUseCase
}

// NewBankingHandler 创建账户处理器
func NewBankingHandler(accounts *appbanking.ListAccountsUseCase, transactions *appbanking.ListTransactionsUseCase) *BankingHandler {
	return &BankingHandler{accounts: accounts, transactions: transactions}
}

// Accounts 客户账户列表
// @Summary      客户账户列表
// @Tags         账户
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query int false "客户ID(员工)"
// @Success      200 {object} response.Response{data=[]appbanking.AccountDTO}
// @Router       /api/v1/banking/accounts [get]
func (h *BankingHandler) Accounts(c *gin.Context) {
	var q dto.CustomerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	actor := middleware.GetActor(c)

	result, err := h.accounts.Execute(c.Request.Context(), actor, targetCustomer(actor, q.CustomerID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Transactions 账户流水
// @Summary      账户流水
// @Tags         账户
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "账户ID"
// @Success      200 {object} response.Response{data=appbanking.ListTransactionsResponse}
// @Router       /api/v1/banking/accounts/{id}/transactions [get]
func (h *BankingHandler) Transactions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q dto.ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.transactions.Execute(c.Request.Context(), appbanking.ListTransactionsRequest{
		Actor:     middleware.GetActor(c),
		AccountID: id,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
