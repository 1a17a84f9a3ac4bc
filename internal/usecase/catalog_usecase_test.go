package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"restobill/internal/domain/model"
	"restobill/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================
// menu
// =====================

func TestMenu_ListByCategory(t *testing.T) {
	uc := usecase.NewMenuUsecase(newSession(), &seqIDs{prefix: "menu"})
	ctx := context.Background()

	all, err := uc.List(ctx, "All")
	require.NoError(t, err)
	assert.Len(t, all, 17)

	breads, err := uc.List(ctx, "Breads")
	require.NoError(t, err)
	require.Len(t, breads, 2)
	assert.Equal(t, "Garlic Naan", breads[0].Name)

	none, err := uc.List(ctx, "Sushi")
	require.NoError(t, err)
	assert.Empty(t, none)

	cats, err := uc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "All", cats[0])
	assert.Contains(t, cats, "South Indian")
}

func TestMenu_CreateUpdateDelete(t *testing.T) {
	uc := usecase.NewMenuUsecase(newSession(), &seqIDs{prefix: "menu"})
	ctx := context.Background()

	item, err := uc.Create(ctx, usecase.MenuItemInput{Name: " Mango Lassi ", Price: decimal.NewFromInt(90), Category: "Beverages"})
	require.NoError(t, err)
	assert.Equal(t, "Mango Lassi", item.Name)
	assert.NotEmpty(t, item.ID)

	cats, err := uc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 8)

	item, err = uc.Update(ctx, item.ID, usecase.MenuItemInput{Name: "Mango Lassi", Price: decimal.NewFromInt(95), Category: "Beverages"})
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(95)))

	require.NoError(t, uc.Delete(ctx, item.ID))
	requireHTTPStatus(t, uc.Delete(ctx, item.ID), http.StatusNotFound)

	_, err = uc.Update(ctx, "missing", usecase.MenuItemInput{Name: "X", Price: decimal.NewFromInt(1), Category: "Y"})
	requireHTTPStatus(t, err, http.StatusNotFound)
}

func TestMenu_Validation(t *testing.T) {
	uc := usecase.NewMenuUsecase(newSession(), &seqIDs{prefix: "menu"})
	ctx := context.Background()

	cases := []struct {
		name string
		in   usecase.MenuItemInput
	}{
		{"empty name", usecase.MenuItemInput{Name: " ", Price: decimal.NewFromInt(10), Category: "Starters"}},
		{"negative price", usecase.MenuItemInput{Name: "Soup", Price: decimal.NewFromInt(-1), Category: "Starters"}},
		{"no category", usecase.MenuItemInput{Name: "Soup", Price: decimal.NewFromInt(10)}},
		{"reserved category", usecase.MenuItemInput{Name: "Soup", Price: decimal.NewFromInt(10), Category: "All"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tc.in)
			requireHTTPStatus(t, err, http.StatusBadRequest)
		})
	}
}

// =====================
// staff
// =====================

func TestStaff_CreateAndList(t *testing.T) {
	uc := usecase.NewStaffUsecase(newSession(), &seqIDs{prefix: "staf"})
	ctx := context.Background()

	s, err := uc.Create(ctx, usecase.StaffInput{Name: "Neha Gupta", Role: "Cashier", Phone: "+91 90000 00000", Email: "neha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.StaffRoleCashier, s.Role)
	assert.Equal(t, testNow, s.JoinedAt)
	assert.False(t, s.HasPIN)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)

	require.NoError(t, uc.Delete(ctx, s.ID))
	list, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestStaff_Validation(t *testing.T) {
	uc := usecase.NewStaffUsecase(newSession(), &seqIDs{prefix: "staf"})
	ctx := context.Background()

	_, err := uc.Create(ctx, usecase.StaffInput{Name: "", Role: "Waiter"})
	requireHTTPStatus(t, err, http.StatusBadRequest)
	_, err = uc.Create(ctx, usecase.StaffInput{Name: "Ravi", Role: "Owner"})
	requireHTTPStatus(t, err, http.StatusBadRequest)
	_, err = uc.Create(ctx, usecase.StaffInput{Name: "Ravi", Role: "Waiter", Email: "not-an-email"})
	requireHTTPStatus(t, err, http.StatusBadRequest)

	requireHTTPStatus(t, uc.SetPIN(ctx, "s2", "12ab"), http.StatusBadRequest)
	requireHTTPStatus(t, uc.SetPIN(ctx, "s2", "123"), http.StatusBadRequest)
	requireHTTPStatus(t, uc.SetPIN(ctx, "nobody", "1234"), http.StatusNotFound)
}

// =====================
// settings
// =====================

func TestSettings_Update(t *testing.T) {
	s := newSession()
	uc := usecase.NewSettingsUsecase(s)
	ctx := context.Background()

	cur, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Spice Garden", cur.Name)

	cur.GSTRate = decimal.NewFromInt(18)
	cur.ServiceChargeRate = decimal.Zero
	_, err = uc.Update(ctx, cur)
	require.NoError(t, err)

	// 新しい税率は次に明細が変わった注文から効く
	pos := usecase.NewPOSUsecase(s, nil)
	o, err := pos.AddItem(ctx, "t1", "5")
	require.NoError(t, err)
	assert.Equal(t, "63.00", o.TaxAmount.StringFixed(2))
	assert.True(t, o.ServiceChargeAmount.IsZero())
	assert.Equal(t, "413.00", o.Total.StringFixed(2))
}

func TestSettings_Validation(t *testing.T) {
	uc := usecase.NewSettingsUsecase(newSession())
	ctx := context.Background()
	base := model.DefaultSettings()

	bad := base
	bad.Name = " "
	_, err := uc.Update(ctx, bad)
	requireHTTPStatus(t, err, http.StatusBadRequest)

	bad = base
	bad.Currency = ""
	_, err = uc.Update(ctx, bad)
	requireHTTPStatus(t, err, http.StatusBadRequest)

	bad = base
	bad.GSTRate = decimal.NewFromInt(101)
	_, err = uc.Update(ctx, bad)
	requireHTTPStatus(t, err, http.StatusBadRequest)

	bad = base
	bad.ServiceChargeRate = decimal.NewFromInt(-5)
	_, err = uc.Update(ctx, bad)
	requireHTTPStatus(t, err, http.StatusBadRequest)
}
