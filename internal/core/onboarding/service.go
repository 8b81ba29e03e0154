package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/company"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/customer"
)

const (
	// MinimumAge は登録可能な最低年齢です。
	MinimumAge = 21
	// MinimumCreditLimit は与信枠を持つ顧客に求められる最低与信枠です。
	MinimumCreditLimit = 500
)

// Service は顧客登録の可否と与信枠を判定します。
// 生成後は協調オブジェクトへの参照のみを保持し、呼び出し間で状態を共有しません。
type Service struct {
	clock     Clock
	companies CompanyLookup
	credit    CreditScoreLookup
	store     CustomerStore
}

// UseCase はオンボーディングユースケースの公開インターフェースです。
type UseCase interface {
	Evaluate(ctx context.Context, in Candidate) (Decision, error)
	AddCustomer(ctx context.Context, in Candidate) (bool, error)
}

// NewService は Service を生成します。いずれかの協調オブジェクトが nil の場合は ErrNilDependency を返します。
func NewService(clock Clock, companies CompanyLookup, credit CreditScoreLookup, store CustomerStore) (*Service, error) {
	switch {
	case clock == nil:
		return nil, fmt.Errorf("clock: %w", ErrNilDependency)
	case companies == nil:
		return nil, fmt.Errorf("company lookup: %w", ErrNilDependency)
	case credit == nil:
		return nil, fmt.Errorf("credit score lookup: %w", ErrNilDependency)
	case store == nil:
		return nil, fmt.Errorf("customer store: %w", ErrNilDependency)
	}
	return &Service{clock: clock, companies: companies, credit: credit, store: store}, nil
}

// Evaluate は申請を検証し、承認された場合は顧客を保存して返します。
// 検証で却下された場合はどの協調オブジェクトも呼び出しません。
// 協調オブジェクトのエラーはそのまま返却します。
func (s *Service) Evaluate(ctx context.Context, in Candidate) (Decision, error) {
	if reason := s.validate(in); reason != ReasonNone {
		return rejected(reason), nil
	}

	comp, err := s.companies.GetByID(ctx, in.CompanyID)
	if err != nil {
		return Decision{}, err
	}

	c := &customer.Customer{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		DateOfBirth: in.DateOfBirth,
		Company:     comp,
	}

	if err := s.applyCreditLimit(ctx, c); err != nil {
		return Decision{}, err
	}

	if isCreditLimitBelowThreshold(c) {
		return rejected(ReasonCreditLimitBelowThreshold), nil
	}

	if err := s.store.Add(ctx, c); err != nil {
		return Decision{}, err
	}

	return Decision{Accepted: true, Customer: c}, nil
}

// AddCustomer は Evaluate の結果を承認可否のみで返します。
func (s *Service) AddCustomer(ctx context.Context, in Candidate) (bool, error) {
	decision, err := s.Evaluate(ctx, in)
	if err != nil {
		return false, err
	}
	return decision.Accepted, nil
}

// AddCustomerDetails は個別の引数から申請を組み立てて AddCustomer を呼び出します。
//
// Deprecated: Candidate を受け取る AddCustomer を使用してください。
func (s *Service) AddCustomerDetails(ctx context.Context, firstName, lastName, email string, dateOfBirth time.Time, companyID int64) (bool, error) {
	return s.AddCustomer(ctx, Candidate{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		DateOfBirth: dateOfBirth,
		CompanyID:   companyID,
	})
}

func (s *Service) validate(in Candidate) Reason {
	if in.FirstName == "" || in.LastName == "" {
		return ReasonInvalidName
	}
	if !isValidEmail(in.Email) {
		return ReasonInvalidEmail
	}
	if Age(in.DateOfBirth, s.clock.Now()) < MinimumAge {
		return ReasonUnderAge
	}
	return ReasonNone
}

func (s *Service) applyCreditLimit(ctx context.Context, c *customer.Customer) error {
	tier := c.Company.Tier()

	// 最重要顧客は与信チェック自体を行わない
	if tier == company.TierVeryImportant {
		c.HasCreditLimit = false
		c.CreditLimit = 0
		return nil
	}

	limit, err := s.credit.GetCreditLimit(ctx, c.FirstName, c.LastName, c.DateOfBirth)
	if err != nil {
		return err
	}

	if tier == company.TierImportant {
		limit *= 2
	}

	c.HasCreditLimit = true
	c.CreditLimit = limit
	return nil
}

// isValidEmail は部分文字列のみを確認する簡易チェックです。
func isValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@") && strings.Contains(email, ".")
}

func isCreditLimitBelowThreshold(c *customer.Customer) bool {
	return c.HasCreditLimit && c.CreditLimit < MinimumCreditLimit
}
