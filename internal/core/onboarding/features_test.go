package onboarding_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/company"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/customer"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/onboarding"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type featureCompanies struct {
	company *company.Company
	calls   int
}

func (f *featureCompanies) GetByID(_ context.Context, id int64) (*company.Company, error) {
	f.calls++
	return f.company, nil
}

type featureCredit struct {
	limit int
	calls int
}

func (f *featureCredit) GetCreditLimit(context.Context, string, string, time.Time) (int, error) {
	f.calls++
	return f.limit, nil
}

type featureStore struct {
	added []*customer.Customer
}

func (f *featureStore) Add(_ context.Context, c *customer.Customer) error {
	f.added = append(f.added, c)
	return nil
}

type onboardingFeature struct {
	today     time.Time
	candidate onboarding.Candidate
	companies *featureCompanies
	credit    *featureCredit
	store     *featureStore
	decision  onboarding.Decision
	err       error
}

func (f *onboardingFeature) reset() {
	*f = onboardingFeature{
		companies: &featureCompanies{company: &company.Company{ID: 12}},
		credit:    &featureCredit{},
		store:     &featureStore{},
	}
}

func (f *onboardingFeature) todayIs(raw string) error {
	today, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return err
	}
	f.today = today
	return nil
}

func (f *onboardingFeature) aCandidateAged(first, last, email string, age int) error {
	f.candidate = onboarding.Candidate{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		DateOfBirth: f.today.AddDate(-age, 0, 0),
		CompanyID:   12,
	}
	return nil
}

func (f *onboardingFeature) theCompanyIsNamed(name string) error {
	f.companies.company = &company.Company{ID: f.candidate.CompanyID, Name: name}
	return nil
}

func (f *onboardingFeature) theCompanyDoesNotExist() error {
	f.companies.company = nil
	return nil
}

func (f *onboardingFeature) theCreditServiceReturns(limit int) error {
	f.credit.limit = limit
	return nil
}

func (f *onboardingFeature) theCandidateIsEvaluated() error {
	svc, err := onboarding.NewService(fixedClock(f.today), f.companies, f.credit, f.store)
	if err != nil {
		return err
	}
	f.decision, f.err = svc.Evaluate(context.Background(), f.candidate)
	return nil
}

func (f *onboardingFeature) theCandidateIsAccepted() error {
	if f.err != nil {
		return f.err
	}
	if !f.decision.Accepted {
		return fmt.Errorf("expected acceptance, got rejection %q", f.decision.Reason)
	}
	return nil
}

func (f *onboardingFeature) theCandidateIsRejectedBecause(reason string) error {
	if f.err != nil {
		return f.err
	}
	if f.decision.Accepted {
		return fmt.Errorf("expected rejection, got acceptance")
	}
	if string(f.decision.Reason) != reason {
		return fmt.Errorf("expected reason %q, got %q", reason, f.decision.Reason)
	}
	return nil
}

func (f *onboardingFeature) theCustomerHasNoCreditLimit() error {
	if f.decision.Customer == nil {
		return fmt.Errorf("no customer in decision")
	}
	if f.decision.Customer.HasCreditLimit {
		return fmt.Errorf("expected no credit limit, got %d", f.decision.Customer.CreditLimit)
	}
	return nil
}

func (f *onboardingFeature) theCustomerHasACreditLimitOf(limit int) error {
	if f.decision.Customer == nil {
		return fmt.Errorf("no customer in decision")
	}
	if !f.decision.Customer.HasCreditLimit || f.decision.Customer.CreditLimit != limit {
		return fmt.Errorf("expected credit limit %d, got has=%t limit=%d", limit, f.decision.Customer.HasCreditLimit, f.decision.Customer.CreditLimit)
	}
	return nil
}

func (f *onboardingFeature) theCreditServiceWasCalled(times int) error {
	if f.credit.calls != times {
		return fmt.Errorf("expected %d credit lookups, got %d", times, f.credit.calls)
	}
	return nil
}

func (f *onboardingFeature) customersWereStored(count int) error {
	if len(f.store.added) != count {
		return fmt.Errorf("expected %d stored customers, got %d", count, len(f.store.added))
	}
	return nil
}

func (f *onboardingFeature) noCollaboratorWasCalled() error {
	if f.companies.calls != 0 || f.credit.calls != 0 || len(f.store.added) != 0 {
		return fmt.Errorf("expected no collaborator calls, got company=%d credit=%d store=%d",
			f.companies.calls, f.credit.calls, len(f.store.added))
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	f := &onboardingFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		f.reset()
		return ctx, nil
	})

	ctx.Step(`^today is "([^"]*)"$`, f.todayIs)
	ctx.Step(`^a candidate "([^"]*)" "([^"]*)" with email "([^"]*)" aged (\d+)$`, f.aCandidateAged)
	ctx.Step(`^the candidate's company is named "([^"]*)"$`, f.theCompanyIsNamed)
	ctx.Step(`^the candidate's company does not exist$`, f.theCompanyDoesNotExist)
	ctx.Step(`^the credit service returns (\d+)$`, f.theCreditServiceReturns)

	ctx.Step(`^the candidate is evaluated$`, f.theCandidateIsEvaluated)

	ctx.Step(`^the candidate is accepted$`, f.theCandidateIsAccepted)
	ctx.Step(`^the candidate is rejected because "([^"]*)"$`, f.theCandidateIsRejectedBecause)
	ctx.Step(`^the customer has no credit limit$`, f.theCustomerHasNoCreditLimit)
	ctx.Step(`^the customer has a credit limit of (\d+)$`, f.theCustomerHasACreditLimitOf)
	ctx.Step(`^the credit service was called (\d+) times$`, f.theCreditServiceWasCalled)
	ctx.Step(`^(\d+) customers? (?:was|were) stored$`, f.customersWereStored)
	ctx.Step(`^no collaborator was called$`, f.noCollaboratorWasCalled)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
