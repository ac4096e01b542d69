package order

import (
	"strings"
)

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentPayPal      PaymentMethod = "PAYPAL"
	PaymentBankAccount PaymentMethod = "BANK_ACCOUNT"
	PaymentCreditCard  PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard   PaymentMethod = "DEBIT_CARD"
)

// ParsePaymentMethod 解析支付方式
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case PaymentCash, PaymentPayPal, PaymentBankAccount, PaymentCreditCard, PaymentDebitCard:
		return m, true
	default:
		return "", false
	}
}

// RequiresLedgerDebit 是否需要从客户内部账户扣款
// 银行账户和银行卡走内部账户;现金和PayPal在系统外结算
func (m PaymentMethod) RequiresLedgerDebit() bool {
	switch m {
	case PaymentBankAccount, PaymentCreditCard, PaymentDebitCard:
		return true
	default:
		return false
	}
}
