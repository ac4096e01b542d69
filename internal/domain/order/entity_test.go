package order

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

func TestCanTransition(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered, StatusCancelled},
		StatusDelivered:  {StatusReturned},
	}
	all := []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s → %s", from, to)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusReturned.IsTerminal())
	assert.False(t, StatusDelivered.IsTerminal())
	assert.False(t, Status(99).IsTerminal())
}

func TestTransitionTo(t *testing.T) {
	o := &Order{Status: StatusDelivered}

	// 场景D: 已送达的订单不能取消
	err := o.TransitionTo(StatusCancelled)
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "DELIVERED", appErr.Fields["from"])
	assert.Equal(t, "CANCELLED", appErr.Fields["to"])
	assert.Equal(t, StatusDelivered, o.Status)

	require.NoError(t, o.TransitionTo(StatusReturned))
	assert.Equal(t, StatusReturned, o.Status)
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("cancelled")
	assert.True(t, ok)
	assert.Equal(t, StatusCancelled, s)

	_, ok = ParseStatus("PAID")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN", Status(0).String())
}

func TestRestoresStock(t *testing.T) {
	assert.True(t, StatusCancelled.RestoresStock())
	assert.False(t, StatusReturned.RestoresStock())
}

func TestPaymentMethod(t *testing.T) {
	m, ok := ParsePaymentMethod("credit_card")
	require.True(t, ok)
	assert.True(t, m.RequiresLedgerDebit())
	assert.True(t, PaymentBankAccount.RequiresLedgerDebit())
	assert.True(t, PaymentDebitCard.RequiresLedgerDebit())
	assert.False(t, PaymentCash.RequiresLedgerDebit())
	assert.False(t, PaymentPayPal.RequiresLedgerDebit())

	_, ok = ParsePaymentMethod("BITCOIN")
	assert.False(t, ok)
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	no := GenerateOrderNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^ORD-20240315-[0-9A-F]{8}$`), no)
	assert.NotEqual(t, no, GenerateOrderNumber(now))
}

func TestItems(t *testing.T) {
	o := &Order{Items: []Item{NewItem(1, 2, 2500), NewItem(2, 1, 5000)}}
	assert.Equal(t, int64(5000), o.Items[0].TotalPrice)
	assert.Equal(t, int64(10000), o.ItemsSubtotal())
	assert.Equal(t, []uint{1, 2}, o.ProductIDs())
}
