package customer

import "context"

// Repository は顧客の永続化を行うインターフェースです。
type Repository interface {
	// Add は承認済みの顧客を保存します。ID と CreatedAt は保存時に設定されます。
	Add(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, filter ListCustomersFilter) ([]*Customer, string, error)
}

// ListCustomersFilter は一覧取得時の検索条件を表します。
type ListCustomersFilter struct {
	Limit     int
	Offset    int
	CompanyID *int64
}
