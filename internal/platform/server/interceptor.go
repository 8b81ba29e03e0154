package server

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RPCObserver は RPC の所要時間を記録します。
type RPCObserver interface {
	ObserveRPC(method, code string, duration time.Duration)
}

// UnaryInterceptor は呼び出しごとにメソッド名、ステータスコード、所要時間を記録します。
// observer は nil を許容します。
func UnaryInterceptor(logger *zap.Logger, observer RPCObserver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)
		code := status.Code(err)

		if observer != nil {
			observer.ObserveRPC(info.FullMethod, code.String(), elapsed)
		}

		logger.Log(levelFor(code), "handled RPC",
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", elapsed),
		)

		return resp, err
	}
}

func levelFor(code codes.Code) zapcore.Level {
	switch code {
	case codes.OK, codes.InvalidArgument, codes.NotFound, codes.AlreadyExists:
		return zapcore.InfoLevel
	case codes.Canceled, codes.DeadlineExceeded:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
