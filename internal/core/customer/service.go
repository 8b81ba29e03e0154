package customer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// Service は登録済み顧客の参照ユースケースをまとめます。
type Service struct {
	repo Repository
}

// UseCase は顧客ユースケースの公開インターフェースです。
type UseCase interface {
	GetCustomer(ctx context.Context, in GetCustomerInput) (*Customer, error)
	ListCustomers(ctx context.Context, in ListCustomersInput) (*ListCustomersResult, error)
}

// NewService は Service を生成します。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetCustomerInput は顧客取得時の入力です。
type GetCustomerInput struct {
	ID string
}

// ListCustomersInput は一覧取得時の入力です。
type ListCustomersInput struct {
	PageSize  int
	PageToken string
	CompanyID *int64
}

// ListCustomersResult は一覧取得結果を表します。
type ListCustomersResult struct {
	Customers     []*Customer
	NextPageToken string
}

// GetCustomer は ID で顧客を取得します。
func (s *Service) GetCustomer(ctx context.Context, in GetCustomerInput) (*Customer, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// ListCustomers は顧客の一覧を取得します。CompanyID を指定すると会社で絞り込みます。
func (s *Service) ListCustomers(ctx context.Context, in ListCustomersInput) (*ListCustomersResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	if in.CompanyID != nil && *in.CompanyID <= 0 {
		return nil, fmt.Errorf("company_id: %w", ErrInvalidID)
	}

	customers, nextToken, err := s.repo.List(ctx, ListCustomersFilter{
		Limit:     limit,
		Offset:    offset,
		CompanyID: in.CompanyID,
	})
	if err != nil {
		return nil, err
	}

	return &ListCustomersResult{
		Customers:     customers,
		NextPageToken: nextToken,
	}, nil
}

func normalizeID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return parsed.String(), nil
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
