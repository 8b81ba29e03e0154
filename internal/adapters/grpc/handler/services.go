package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// 各サービスは structpb.Struct を要求・応答メッセージとして手動で登録します。
const (
	OnboardingServiceName = "onboarding.v1.OnboardingService"
	CompanyServiceName    = "company.v1.CompanyService"
	CustomerServiceName   = "customer.v1.CustomerService"
)

// OnboardingServiceServer は OnboardingService のサーバー実装が満たすインターフェースです。
type OnboardingServiceServer interface {
	AddCustomer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CompanyServiceServer は CompanyService のサーバー実装が満たすインターフェースです。
type CompanyServiceServer interface {
	CreateCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListCompanies(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CustomerServiceServer は CustomerService のサーバー実装が満たすインターフェースです。
type CustomerServiceServer interface {
	GetCustomer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListCustomers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// OnboardingServiceDesc は OnboardingService のサービス定義です。
var OnboardingServiceDesc = grpc.ServiceDesc{
	ServiceName: OnboardingServiceName,
	HandlerType: (*OnboardingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(OnboardingServiceName, "AddCustomer", OnboardingServiceServer.AddCustomer),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "onboarding/v1/onboarding.proto",
}

// CompanyServiceDesc は CompanyService のサービス定義です。
var CompanyServiceDesc = grpc.ServiceDesc{
	ServiceName: CompanyServiceName,
	HandlerType: (*CompanyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(CompanyServiceName, "CreateCompany", CompanyServiceServer.CreateCompany),
		unaryMethod(CompanyServiceName, "GetCompany", CompanyServiceServer.GetCompany),
		unaryMethod(CompanyServiceName, "ListCompanies", CompanyServiceServer.ListCompanies),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "company/v1/company.proto",
}

// CustomerServiceDesc は CustomerService のサービス定義です。
var CustomerServiceDesc = grpc.ServiceDesc{
	ServiceName: CustomerServiceName,
	HandlerType: (*CustomerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(CustomerServiceName, "GetCustomer", CustomerServiceServer.GetCustomer),
		unaryMethod(CustomerServiceName, "ListCustomers", CustomerServiceServer.ListCustomers),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "customer/v1/customer.proto",
}

// RegisterOnboardingServiceServer は OnboardingService を登録します。
func RegisterOnboardingServiceServer(s grpc.ServiceRegistrar, srv OnboardingServiceServer) {
	s.RegisterService(&OnboardingServiceDesc, srv)
}

// RegisterCompanyServiceServer は CompanyService を登録します。
func RegisterCompanyServiceServer(s grpc.ServiceRegistrar, srv CompanyServiceServer) {
	s.RegisterService(&CompanyServiceDesc, srv)
}

// RegisterCustomerServiceServer は CustomerService を登録します。
func RegisterCustomerServiceServer(s grpc.ServiceRegistrar, srv CustomerServiceServer) {
	s.RegisterService(&CustomerServiceDesc, srv)
}

func unaryMethod[S any](service, method string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method

	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
