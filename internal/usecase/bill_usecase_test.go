package usecase_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"restobill/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBill_Render(t *testing.T) {
	s, pos, _ := setupPOS(t)
	ctx := context.Background()

	o, err := pos.AddItem(ctx, "t1", "5")
	require.NoError(t, err)
	o, err = pos.AddItem(ctx, "t1", "9")
	require.NoError(t, err)
	o, err = pos.AddItem(ctx, "t1", "9")
	require.NoError(t, err)
	_, err = pos.SetLineNote(ctx, o.ID, o.Items[1].ID, "extra butter")
	require.NoError(t, err)
	_, err = pos.SetDetails(ctx, o.ID, "Anita", "")
	require.NoError(t, err)
	_, err = pos.ApplyDiscount(ctx, o.ID, decimal.NewFromInt(6))
	require.NoError(t, err)

	bill, err := usecase.NewBillUsecase(s, fixedClock{testNow}).Render(ctx, o.ID)
	require.NoError(t, err)

	for _, want := range []string{
		"Spice Garden",
		"Tel: +91 98765 43210",
		"Date: 14/03/2026",
		"Time: 20:15",
		"Bill #: ABCD0001",
		"Table: Table 1",
		"Customer: Anita",
		"Butter Chicken\n  1 x ₹350.00",
		"Garlic Naan\n  2 x ₹55.00",
		"₹110.00\n  Note: extra butter",
		"₹460.00",
		"GST (5%):",
		"Service Charge (5%):",
		"-₹6.00",
		"₹500.00",
		"Thank you for dining with us!",
		"Please visit again.",
	} {
		assert.Contains(t, bill, want)
	}

	for _, line := range strings.Split(strings.TrimRight(bill, "\n"), "\n") {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), 40, line)
	}
}

func TestBill_RenderWithoutDiscount(t *testing.T) {
	s, pos, _ := setupPOS(t)
	ctx := context.Background()

	o, err := pos.AddItem(ctx, "t2", "15")
	require.NoError(t, err)

	bill, err := usecase.NewBillUsecase(s, fixedClock{testNow}).Render(ctx, o.ID)
	require.NoError(t, err)
	assert.NotContains(t, bill, "Discount")
	assert.NotContains(t, bill, "Customer:")
	assert.Contains(t, bill, "₹33.00")
}

func TestBill_CompletedOrder(t *testing.T) {
	s, pos, pub := setupPOS(t)
	ctx := context.Background()
	pub.On("PublishOrderClosed", mock.Anything, mock.Anything).Return(nil)

	o, err := pos.AddItem(ctx, "t3", "13")
	require.NoError(t, err)
	_, err = pos.CompleteOrder(ctx, o.ID)
	require.NoError(t, err)

	bill, err := usecase.NewBillUsecase(s, fixedClock{testNow}).Render(ctx, o.ID)
	require.NoError(t, err)
	assert.Contains(t, bill, "Masala Dosa")
	assert.Contains(t, bill, "₹132.00")
}

func TestBill_CancelledOrderConflict(t *testing.T) {
	s, pos, pub := setupPOS(t)
	ctx := context.Background()
	pub.On("PublishOrderClosed", mock.Anything, mock.Anything).Return(nil)

	o, err := pos.AddItem(ctx, "t3", "13")
	require.NoError(t, err)
	_, err = pos.CancelOrder(ctx, o.ID)
	require.NoError(t, err)

	_, err = usecase.NewBillUsecase(s, fixedClock{testNow}).Render(ctx, o.ID)
	requireHTTPStatus(t, err, http.StatusConflict)
}

func TestBill_UnknownOrder(t *testing.T) {
	_, err := usecase.NewBillUsecase(newSession(), fixedClock{testNow}).Render(context.Background(), "nope")
	requireHTTPStatus(t, err, http.StatusNotFound)
}
