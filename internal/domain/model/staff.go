package model

import "time"

type StaffRole string

const (
	StaffRoleManager StaffRole = "Manager"
	StaffRoleWaiter  StaffRole = "Waiter"
	StaffRoleChef    StaffRole = "Chef"
	StaffRoleCashier StaffRole = "Cashier"
)

func (r StaffRole) Valid() bool {
	switch r {
	case StaffRoleManager, StaffRoleWaiter, StaffRoleChef, StaffRoleCashier:
		return true
	}
	return false
}

// スタッフ。
// PinHash はログインPINのbcryptハッシュ（スナップショットには保存、APIでは返さない）。
type Staff struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Role     StaffRole `json:"role"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
	PinHash  string    `json:"pin_hash,omitempty"`
}
