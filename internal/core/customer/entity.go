package customer

import (
	"time"

	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/company"
)

// Customer は登録が承認された顧客です。
// HasCreditLimit が false の場合 CreditLimit は意味を持たず 0 のままです。
type Customer struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	DateOfBirth    time.Time
	Company        *company.Company
	HasCreditLimit bool
	CreditLimit    int
	CreatedAt      time.Time
}

// CompanyID は紐づく会社の ID を返します。会社が未解決の場合は 0 です。
func (c *Customer) CompanyID() int64 {
	if c == nil || c.Company == nil {
		return 0
	}
	return c.Company.ID
}
