package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ogurasousui/codex-grpc-onboarding/internal/adapters/grpc/handler"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// Services はサーバーに登録するサービス実装の集合です。nil のサービスは登録しません。
type Services struct {
	Onboarding handler.OnboardingServiceServer
	Company    handler.CompanyServiceServer
	Customer   handler.CustomerServiceServer
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	logger     *zap.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
// ロギングとメトリクスの Unary インターセプタを先頭に組み込みます。
func New(listenAddr string, services Services, logger *zap.Logger, observer RPCObserver, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryInterceptor(logger, observer))}, opts...)
	srv := grpc.NewServer(opts...)

	if services.Onboarding != nil {
		handler.RegisterOnboardingServiceServer(srv, services.Onboarding)
	}
	if services.Company != nil {
		handler.RegisterCompanyServiceServer(srv, services.Company)
	}
	if services.Customer != nil {
		handler.RegisterCustomerServiceServer(srv, services.Customer)
	}

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	return s.Serve(ctx, lis)
}

// Serve は与えられたリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down gRPC server")
		s.grpcServer.GracefulStop()
	}()

	s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
