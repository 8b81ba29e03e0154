package handler

import (
	"context"

	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/company"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// CompanyGrpcHandler は CompanyService の gRPC 実装です。
type CompanyGrpcHandler struct {
	svc company.UseCase
}

// NewCompanyGrpcHandler は CompanyGrpcHandler を生成します。
func NewCompanyGrpcHandler(svc company.UseCase) *CompanyGrpcHandler {
	return &CompanyGrpcHandler{svc: svc}
}

// CreateCompany は会社を作成します。
func (h *CompanyGrpcHandler) CreateCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	created, err := h.svc.CreateCompany(ctx, company.CreateCompanyInput{
		Name:        stringField(req, "name"),
		Description: optionalStringField(req, "description"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"company": companyFields(created)})
}

// GetCompany は会社を取得します。
func (h *CompanyGrpcHandler) GetCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, _, err := intField(req, "id")
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetCompany(ctx, company.GetCompanyInput{ID: id})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"company": companyFields(found)})
}

// ListCompanies は会社の一覧を取得します。tier を指定すると区分で絞り込みます。
func (h *CompanyGrpcHandler) ListCompanies(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	pageSize, _, err := intField(req, "page_size")
	if err != nil {
		return nil, err
	}

	var tierPtr *company.Tier
	if raw := stringField(req, "tier"); raw != "" {
		tier := company.Tier(raw)
		tierPtr = &tier
	}

	result, err := h.svc.ListCompanies(ctx, company.ListCompaniesInput{
		PageSize:  int(pageSize),
		PageToken: stringField(req, "page_token"),
		Tier:      tierPtr,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	companies := make([]any, 0, len(result.Companies))
	for _, c := range result.Companies {
		companies = append(companies, companyFields(c))
	}

	return newStruct(map[string]any{
		"companies":       companies,
		"next_page_token": result.NextPageToken,
	})
}

func companyFields(c *company.Company) map[string]any {
	if c == nil {
		return nil
	}

	fields := map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"tier":       string(c.Tier()),
		"created_at": formatTimestamp(c.CreatedAt),
		"updated_at": formatTimestamp(c.UpdatedAt),
	}
	if c.Description != nil {
		fields["description"] = *c.Description
	}
	return fields
}
