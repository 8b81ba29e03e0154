package handler

import (
	"context"
	"time"

	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/customer"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/onboarding"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// DecisionRecorder は判定結果をメトリクスへ記録します。
type DecisionRecorder interface {
	ObserveDecision(accepted bool, reason string)
}

// OnboardingGrpcHandler は OnboardingService の gRPC 実装です。
type OnboardingGrpcHandler struct {
	svc      onboarding.UseCase
	recorder DecisionRecorder
	logger   *zap.Logger
}

// NewOnboardingGrpcHandler は OnboardingGrpcHandler を生成します。recorder と logger は nil を許容します。
func NewOnboardingGrpcHandler(svc onboarding.UseCase, recorder DecisionRecorder, logger *zap.Logger) *OnboardingGrpcHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnboardingGrpcHandler{svc: svc, recorder: recorder, logger: logger}
}

// AddCustomer は登録申請を判定します。
// 要求: first_name, last_name, email, date_of_birth (YYYY-MM-DD), company_id
// 応答: accepted, reason, customer (承認時のみ)
func (h *OnboardingGrpcHandler) AddCustomer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	dob, err := dateField(req, "date_of_birth")
	if err != nil {
		return nil, err
	}

	companyID, _, err := intField(req, "company_id")
	if err != nil {
		return nil, err
	}

	decision, err := h.svc.Evaluate(ctx, onboarding.Candidate{
		FirstName:   stringField(req, "first_name"),
		LastName:    stringField(req, "last_name"),
		Email:       stringField(req, "email"),
		DateOfBirth: dob,
		CompanyID:   companyID,
	})
	if err != nil {
		h.logger.Error("onboarding evaluation failed", zap.Int64("company_id", companyID), zap.Error(err))
		return nil, toStatusError(err)
	}

	if h.recorder != nil {
		h.recorder.ObserveDecision(decision.Accepted, string(decision.Reason))
	}

	if decision.Accepted {
		h.logger.Info("customer onboarded",
			zap.String("customer_id", decision.Customer.ID),
			zap.Int64("company_id", decision.Customer.CompanyID()),
			zap.Bool("has_credit_limit", decision.Customer.HasCreditLimit),
		)
	} else {
		h.logger.Info("customer rejected", zap.String("reason", string(decision.Reason)))
	}

	fields := map[string]any{
		"accepted": decision.Accepted,
		"reason":   string(decision.Reason),
	}
	if decision.Customer != nil {
		fields["customer"] = customerFields(decision.Customer)
	}

	return newStruct(fields)
}

func customerFields(c *customer.Customer) map[string]any {
	fields := map[string]any{
		"id":               c.ID,
		"first_name":       c.FirstName,
		"last_name":        c.LastName,
		"email":            c.Email,
		"date_of_birth":    c.DateOfBirth.Format(time.DateOnly),
		"has_credit_limit": c.HasCreditLimit,
		"created_at":       formatTimestamp(c.CreatedAt),
	}
	if c.HasCreditLimit {
		fields["credit_limit"] = c.CreditLimit
	}
	if c.Company != nil {
		fields["company"] = companyFields(c.Company)
	}
	return fields
}
