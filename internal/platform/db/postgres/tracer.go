package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// QueryLogger は pgx.QueryTracer の実装で、失敗したクエリと遅いクエリを zap に記録します。
type QueryLogger struct {
	logger        *zap.Logger
	slowThreshold time.Duration
	now           func() time.Time
}

// NewQueryLogger は QueryLogger を生成します。slowThreshold が 0 以下の場合は遅延を記録しません。
func NewQueryLogger(logger *zap.Logger, slowThreshold time.Duration) *QueryLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryLogger{logger: logger, slowThreshold: slowThreshold, now: time.Now}
}

// TraceQueryStart はクエリの開始時刻をコンテキストに記録します。
func (l *QueryLogger) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: l.now()})
}

// TraceQueryEnd は結果に応じてログを出力します。
func (l *QueryLogger) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := l.now().Sub(qs.start)

	switch {
	case data.Err != nil:
		l.logger.Warn("query failed",
			zap.String("sql", qs.sql),
			zap.Duration("duration", elapsed),
			zap.Error(data.Err),
		)
	case l.slowThreshold > 0 && elapsed >= l.slowThreshold:
		l.logger.Warn("slow query",
			zap.String("sql", qs.sql),
			zap.Duration("duration", elapsed),
			zap.Int64("rows_affected", data.CommandTag.RowsAffected()),
		)
	default:
		l.logger.Debug("query",
			zap.String("sql", qs.sql),
			zap.Duration("duration", elapsed),
		)
	}
}
