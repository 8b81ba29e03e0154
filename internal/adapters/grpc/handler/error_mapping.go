package handler

import (
	"errors"

	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/company"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/customer"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	// ハンドラ自身が生成したステータスはそのまま返します。
	if se, ok := err.(interface{ GRPCStatus() *status.Status }); ok {
		return se.GRPCStatus().Err()
	}

	// 下流サービスの一時的な障害はコードを保ったまま返します。
	var remote interface{ GRPCStatus() *status.Status }
	if errors.As(err, &remote) {
		switch code := remote.GRPCStatus().Code(); code {
		case codes.Unavailable, codes.DeadlineExceeded:
			return status.Error(code, err.Error())
		}
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, company.ErrInvalidName),
		errors.Is(err, company.ErrInvalidTier),
		errors.Is(err, company.ErrInvalidID),
		errors.Is(err, company.ErrInvalidPageSize),
		errors.Is(err, company.ErrInvalidPageToken),
		errors.Is(err, customer.ErrInvalidID),
		errors.Is(err, customer.ErrInvalidPageSize),
		errors.Is(err, customer.ErrInvalidPageToken):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, company.ErrNameAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, company.ErrCompanyNotFound), errors.Is(err, customer.ErrCustomerNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
