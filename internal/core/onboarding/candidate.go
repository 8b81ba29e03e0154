package onboarding

import "time"

// Candidate は検証前の登録申請です。呼び出し側が生成し、判定で一度だけ消費されます。
type Candidate struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
	CompanyID   int64
}
