package onboarding

import (
	"context"
	"time"

	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/company"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/customer"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

// CompanyLookup は会社 ID から会社を解決します。
// 該当がない場合はエラーではなく nil を返さなければなりません。
type CompanyLookup interface {
	GetByID(ctx context.Context, id int64) (*company.Company, error)
}

// CreditScoreLookup は外部の与信サービスから与信枠を取得します。
type CreditScoreLookup interface {
	GetCreditLimit(ctx context.Context, firstName, lastName string, dateOfBirth time.Time) (int, error)
}

// CustomerStore は承認された顧客を保存します。
type CustomerStore interface {
	Add(ctx context.Context, c *customer.Customer) error
}
