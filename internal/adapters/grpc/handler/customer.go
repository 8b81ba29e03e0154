package handler

import (
	"context"

	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/customer"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// CustomerGrpcHandler は CustomerService の gRPC 実装です。
type CustomerGrpcHandler struct {
	svc customer.UseCase
}

// NewCustomerGrpcHandler は CustomerGrpcHandler を生成します。
func NewCustomerGrpcHandler(svc customer.UseCase) *CustomerGrpcHandler {
	return &CustomerGrpcHandler{svc: svc}
}

// GetCustomer は登録済みの顧客を取得します。
func (h *CustomerGrpcHandler) GetCustomer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetCustomer(ctx, customer.GetCustomerInput{ID: stringField(req, "id")})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"customer": customerFields(found)})
}

// ListCustomers は顧客の一覧を取得します。
func (h *CustomerGrpcHandler) ListCustomers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	pageSize, _, err := intField(req, "page_size")
	if err != nil {
		return nil, err
	}

	companyID, hasCompany, err := intField(req, "company_id")
	if err != nil {
		return nil, err
	}

	in := customer.ListCustomersInput{
		PageSize:  int(pageSize),
		PageToken: stringField(req, "page_token"),
	}
	if hasCompany {
		in.CompanyID = &companyID
	}

	result, err := h.svc.ListCustomers(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	customers := make([]any, 0, len(result.Customers))
	for _, c := range result.Customers {
		customers = append(customers, customerFields(c))
	}

	return newStruct(map[string]any{
		"customers":       customers,
		"next_page_token": result.NextPageToken,
	})
}
