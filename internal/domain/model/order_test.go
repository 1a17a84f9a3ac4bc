package model_test

import (
	"errors"
	"testing"
	"time"

	"restobill/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

func butterChicken() model.MenuItem {
	return model.MenuItem{ID: "5", Name: "Butter Chicken", Price: decimal.NewFromInt(350), Category: "Main Course"}
}

func garlicNaan() model.MenuItem {
	return model.MenuItem{ID: "9", Name: "Garlic Naan", Price: decimal.NewFromInt(55), Category: "Breads"}
}

func TestOrder_AddItem_SameMenuItemIncrementsQuantity(t *testing.T) {
	s := model.DefaultSettings()
	o := model.NewOrder("o1", "t1", testNow)

	o, err := o.WithItemAdded("l1", butterChicken(), s)
	require.NoError(t, err)
	o, err = o.WithLineNote("l1", "less spicy")
	require.NoError(t, err)
	o, err = o.WithItemAdded("l2", butterChicken(), s)
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, "l1", o.Items[0].ID)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "less spicy", o.Items[0].Note)
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(700)))
	assert.True(t, o.TotalsConsistent())
}

func TestOrder_ButterChickenAndTwoNaans(t *testing.T) {
	s := model.DefaultSettings()
	o := model.NewOrder("o1", "t1", testNow)

	o, _ = o.WithItemAdded("l1", butterChicken(), s)
	o, _ = o.WithItemAdded("l2", garlicNaan(), s)
	o, err := o.WithItemAdded("l3", garlicNaan(), s)
	require.NoError(t, err)

	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(460)))
	assert.True(t, o.TaxAmount.Equal(decimal.NewFromInt(23)))
	assert.True(t, o.ServiceChargeAmount.Equal(decimal.NewFromInt(23)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(506)))
	assert.Equal(t, 3, o.ItemCount())
}

func TestOrder_AdjustQuantity_RemovesAtZero(t *testing.T) {
	s := model.DefaultSettings()
	o := model.NewOrder("o1", "t1", testNow)
	o, _ = o.WithItemAdded("l1", butterChicken(), s)

	o, err := o.WithQuantityAdjusted("l1", -1, s)
	require.NoError(t, err)

	assert.Empty(t, o.Items)
	assert.True(t, o.Total.IsZero())
}

func TestOrder_AdjustQuantity_UnknownLineIsNoop(t *testing.T) {
	s := model.DefaultSettings()
	o := model.NewOrder("o1", "t1", testNow)
	o, _ = o.WithItemAdded("l1", butterChicken(), s)

	got, err := o.WithQuantityAdjusted("missing", 3, s)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestOrder_Complete_EmptyFails(t *testing.T) {
	o := model.NewOrder("o1", "t1", testNow)

	_, err := o.Completed(testNow)
	assert.True(t, errors.Is(err, model.ErrInvalidTransition))
}

func TestOrder_Complete_Twice(t *testing.T) {
	s := model.DefaultSettings()
	o := model.NewOrder("o1", "t1", testNow)
	o, _ = o.WithItemAdded("l1", butterChicken(), s)

	done, err := o.Completed(testNow)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, model.OrderStatusCompleted, done.Status)

	_, err = done.Completed(testNow)
	assert.True(t, errors.Is(err, model.ErrInvalidTransition))

	_, err = done.WithItemAdded("l2", garlicNaan(), s)
	assert.True(t, errors.Is(err, model.ErrInvalidTransition))

	_, err = done.Cancelled(testNow)
	assert.True(t, errors.Is(err, model.ErrInvalidTransition))
}

func TestOrder_Cancel_EmptyAllowed(t *testing.T) {
	o := model.NewOrder("o1", "t1", testNow)

	c, err := o.Cancelled(testNow)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, c.Status)
	require.NotNil(t, c.CancelledAt)
	assert.Nil(t, c.CompletedAt)
}

func TestOrder_MutationDoesNotTouchPreviousValue(t *testing.T) {
	s := model.DefaultSettings()
	before := model.NewOrder("o1", "t1", testNow)
	before, _ = before.WithItemAdded("l1", butterChicken(), s)

	after, err := before.WithItemAdded("l2", butterChicken(), s)
	require.NoError(t, err)
	_, err = after.WithLineNote("l1", "extra gravy")
	require.NoError(t, err)

	assert.Equal(t, 1, before.Items[0].Quantity)
	assert.Equal(t, "", before.Items[0].Note)
	assert.Equal(t, 2, after.Items[0].Quantity)
}

func TestOrder_PriceChangeIsNotRetroactive(t *testing.T) {
	s := model.DefaultSettings()
	item := butterChicken()
	o := model.NewOrder("o1", "t1", testNow)
	o, _ = o.WithItemAdded("l1", item, s)

	item.Price = decimal.NewFromInt(400)
	o, err := o.WithItemAdded("l2", item, s)
	require.NoError(t, err)

	// 既存明細の単価は追加時点のまま
	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].UnitPrice.Equal(decimal.NewFromInt(350)))
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(700)))
}

func TestOrder_Discount(t *testing.T) {
	s := model.DefaultSettings()
	o := model.NewOrder("o1", "t1", testNow)
	o, _ = o.WithItemAdded("l1", butterChicken(), s)

	_, err := o.WithDiscount(decimal.NewFromInt(-1), s)
	assert.True(t, errors.Is(err, model.ErrValidation))

	d, err := o.WithDiscount(decimal.NewFromInt(50), s)
	require.NoError(t, err)
	assert.True(t, d.Total.Equal(decimal.RequireFromString("335")))
	assert.True(t, d.TotalsConsistent())

	big, err := o.WithDiscount(decimal.NewFromInt(10000), s)
	require.NoError(t, err)
	assert.True(t, big.Total.IsZero())
	assert.True(t, big.DiscountAmount.Equal(decimal.RequireFromString("385")))
	assert.True(t, big.RequestedDiscount.Equal(decimal.NewFromInt(10000)))
}

func TestOrder_DiscountSurvivesEmptiedOrder(t *testing.T) {
	s := model.DefaultSettings()
	s.GSTRate = decimal.Zero
	s.ServiceChargeRate = decimal.Zero
	item := model.MenuItem{ID: "x", Name: "Thali", Price: decimal.NewFromInt(100), Category: "Main Course"}

	o := model.NewOrder("o1", "t1", testNow)
	o, err := o.WithItemAdded("l1", item, s)
	require.NoError(t, err)
	o, err = o.WithDiscount(decimal.NewFromInt(50), s)
	require.NoError(t, err)

	// 明細が無い間は適用額 0
	o, err = o.WithQuantityAdjusted("l1", -1, s)
	require.NoError(t, err)
	assert.True(t, o.DiscountAmount.IsZero())
	assert.True(t, o.Total.IsZero())

	o, err = o.WithItemAdded("l2", item, s)
	require.NoError(t, err)
	assert.True(t, o.DiscountAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(50)))
	assert.True(t, o.TotalsConsistent())
}

func TestOrder_Details(t *testing.T) {
	o := model.NewOrder("o1", "t1", testNow)

	o, err := o.WithDetails("Asha", "birthday")
	require.NoError(t, err)
	assert.Equal(t, "Asha", o.CustomerName)
	assert.Equal(t, "birthday", o.Note)
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	s := model.DefaultSnapshot(testNow)
	o := model.NewOrder("o1", "t1", testNow)
	o, _ = o.WithItemAdded("l1", butterChicken(), model.DefaultSettings())
	s.Orders["o1"] = o

	c := s.Clone()
	c.Tables[0].Status = model.TableStatusOccupied
	c.Orders["o1"].Items[0].Quantity = 9

	assert.Equal(t, model.TableStatusAvailable, s.Tables[0].Status)
	assert.Equal(t, 1, s.Orders["o1"].Items[0].Quantity)
}

func TestDefaultSnapshot(t *testing.T) {
	s := model.DefaultSnapshot(testNow)

	assert.Len(t, s.Tables, 12)
	assert.Len(t, s.Menu, 17)
	assert.Len(t, s.Staff, 3)
	assert.Empty(t, s.Orders)
	assert.Equal(t, "t1", s.Tables[0].ID)
	assert.Equal(t, "Table 12", s.Tables[11].Name)
	assert.Equal(t, []string{"All", "Starters", "Main Course", "Breads", "Rice", "South Indian", "Beverages", "Dessert"}, model.Categories(s.Menu))
}
