package company

import "time"

// Tier は会社の重要度区分を表します。与信枠の扱いを決定します。
type Tier string

const (
	TierVeryImportant Tier = "very_important"
	TierImportant     Tier = "important"
	TierStandard      Tier = "standard"
)

const (
	// VeryImportantClientName は与信チェックを免除する会社名です。
	VeryImportantClientName = "VeryImportantClient"
	// ImportantClientName は与信枠を 2 倍にする会社名です。
	ImportantClientName = "ImportantClient"
)

// Company は会社エンティティです。
type Company struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tier は会社名から区分を判定します。nil の会社は標準扱いです。
func (c *Company) Tier() Tier {
	if c == nil {
		return TierStandard
	}
	return TierOf(c.Name)
}

// TierOf は会社名に対応する区分を返します。
func TierOf(name string) Tier {
	switch name {
	case VeryImportantClientName:
		return TierVeryImportant
	case ImportantClientName:
		return TierImportant
	default:
		return TierStandard
	}
}
