package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// 初期データ。スナップショットにキーが無い/壊れているときはここに戻る。

func DefaultSettings() StoreSettings {
	return StoreSettings{
		Name:              "Spice Garden",
		Address:           "42 Masala Street, New Delhi, 110001",
		Phone:             "+91 98765 43210",
		GSTRate:           decimal.NewFromInt(5),
		ServiceChargeRate: decimal.NewFromInt(5),
		Currency:          "₹",
	}
}

func DefaultMenu() []MenuItem {
	item := func(id, name string, price int64, category, description string) MenuItem {
		return MenuItem{ID: id, Name: name, Price: decimal.NewFromInt(price), Category: category, Description: description}
	}

	return []MenuItem{
		// Starters
		item("1", "Paneer Tikka", 240, "Starters", "Marinated cottage cheese grilled in tandoor"),
		item("2", "Chicken Tikka", 280, "Starters", "Spicy marinated chicken chunks"),
		item("3", "Veg Manchurian", 180, "Starters", "Vegetable balls in spicy chinese sauce"),
		item("4", "Samosa (2pcs)", 40, "Starters", "Crispy pastry filled with spiced potatoes"),

		// Main Course
		item("5", "Butter Chicken", 350, "Main Course", "Classic chicken in rich tomato butter gravy"),
		item("6", "Dal Makhani", 220, "Main Course", "Creamy black lentils slow cooked overnight"),
		item("7", "Paneer Butter Masala", 260, "Main Course", "Cottage cheese in rich tomato gravy"),
		item("8", "Kadai Chicken", 320, "Main Course", "Chicken cooked with bell peppers and spices"),

		// Breads & Rice
		item("9", "Garlic Naan", 55, "Breads", "Leavened bread topped with garlic"),
		item("10", "Butter Roti", 35, "Breads", "Whole wheat bread with butter"),
		item("11", "Chicken Biryani", 280, "Rice", "Aromatic basmati rice cooked with spiced chicken"),
		item("12", "Jeera Rice", 140, "Rice", "Basmati rice tempered with cumin seeds"),

		// South Indian
		item("13", "Masala Dosa", 120, "South Indian", "Crispy rice crepe filled with potato masala"),
		item("14", "Idli Sambar", 80, "South Indian", "Steamed rice cakes with lentil soup"),

		// Beverages & Desserts
		item("15", "Masala Chai", 30, "Beverages", "Spiced indian tea"),
		item("16", "Sweet Lassi", 80, "Beverages", "Chilled yogurt drink"),
		item("17", "Gulab Jamun", 60, "Dessert", "Deep fried milk dumplings in sugar syrup"),
	}
}

// 12卓（t1〜t12、4人掛け）
func DefaultTables() []Table {
	tables := make([]Table, 0, 12)
	for i := 1; i <= 12; i++ {
		tables = append(tables, Table{
			ID:       fmt.Sprintf("t%d", i),
			Name:     fmt.Sprintf("Table %d", i),
			Capacity: 4,
			Status:   TableStatusAvailable,
		})
	}
	return tables
}

// PIN は未設定（BOOTSTRAP_PIN か /staff/:id/pin で設定する）
func DefaultStaff(now time.Time) []Staff {
	return []Staff{
		{ID: "s1", Name: "Rahul Sharma", Role: StaffRoleManager, Phone: "98765-00001", JoinedAt: now},
		{ID: "s2", Name: "Priya Singh", Role: StaffRoleWaiter, Phone: "98765-00002", JoinedAt: now},
		{ID: "s3", Name: "Amit Kumar", Role: StaffRoleChef, Phone: "98765-00003", JoinedAt: now},
	}
}

func DefaultSnapshot(now time.Time) Snapshot {
	return Snapshot{
		Tables:   DefaultTables(),
		Orders:   map[string]Order{},
		Settings: DefaultSettings(),
		Menu:     DefaultMenu(),
		Staff:    DefaultStaff(now),
	}
}
