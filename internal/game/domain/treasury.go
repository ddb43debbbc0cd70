package domain

import "math"

// Treasury 吸收玩家余额封顶后溢出的金额。只增不减；计数器本身溢出是致命错误。
type Treasury struct {
	guard WriterGuard
	minor int64
}

func NewTreasury() *Treasury {
	return &Treasury{guard: WriterGuard{Owner: "treasury"}}
}

// RestoreTreasury 用持久化的计数恢复国库。
func RestoreTreasury(minor int64) (*Treasury, error) {
	if minor < 0 {
		return nil, ErrInvalidArgument.WithData("treasury_minor_units", minor)
	}
	t := NewTreasury()
	t.minor = minor
	return t, nil
}

func (t *Treasury) MinorUnits() int64 {
	defer t.guard.Enter("Treasury.MinorUnits")()
	return t.minor
}

// Deposit 存入溢出金额。零值是合法的空操作。
func (t *Treasury) Deposit(amount Money) error {
	defer t.guard.Enter("Treasury.Deposit")()
	if err := t.canDeposit(amount); err != nil {
		return err
	}
	t.minor += amount.minor
	return nil
}

// CanDeposit 在真正修改任何状态前检查计数器是否会溢出。
func (t *Treasury) CanDeposit(amount Money) error {
	defer t.guard.Enter("Treasury.CanDeposit")()
	return t.canDeposit(amount)
}

func (t *Treasury) canDeposit(amount Money) error {
	if amount.minor > math.MaxInt64-t.minor {
		return ErrTreasuryOverflow.WithData("treasury_minor_units", t.minor).WithData("deposit", amount.minor)
	}
	return nil
}

// Snapshot 返回当前计数，用于补偿回滚。
func (t *Treasury) Snapshot() int64 {
	return t.MinorUnits()
}

func (t *Treasury) Restore(minor int64) {
	defer t.guard.Enter("Treasury.Restore")()
	t.minor = minor
}
