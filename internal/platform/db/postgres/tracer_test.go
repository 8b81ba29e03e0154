package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type steppingClock struct {
	times []time.Time
}

func (c *steppingClock) now() time.Time {
	t := c.times[0]
	c.times = c.times[1:]
	return t
}

func traceOnce(l *QueryLogger, elapsed time.Duration, err error) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock := &steppingClock{times: []time.Time{base, base.Add(elapsed)}}
	l.now = clock.now

	ctx := l.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	l.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1"), Err: err})
}

func TestQueryLogger_Levels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		elapsed time.Duration
		err     error
		message string
		level   zapcore.Level
	}{
		{name: "fast", elapsed: time.Millisecond, message: "query", level: zapcore.DebugLevel},
		{name: "slow", elapsed: time.Second, message: "slow query", level: zapcore.WarnLevel},
		{name: "failed", elapsed: time.Millisecond, err: errors.New("syntax error"), message: "query failed", level: zapcore.WarnLevel},
	}

	for _, tc := range cases {
		core, logs := observer.New(zapcore.DebugLevel)
		traceOnce(NewQueryLogger(zap.New(core), 100*time.Millisecond), tc.elapsed, tc.err)

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("%s: expected 1 entry, got %d", tc.name, len(entries))
		}
		if entries[0].Message != tc.message || entries[0].Level != tc.level {
			t.Fatalf("%s: unexpected entry %s/%s", tc.name, entries[0].Level, entries[0].Message)
		}
		if entries[0].ContextMap()["sql"] != "SELECT 1" {
			t.Fatalf("%s: expected sql field, got %v", tc.name, entries[0].ContextMap())
		}
	}
}

func TestQueryLogger_ZeroThresholdNeverSlow(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	traceOnce(NewQueryLogger(zap.New(core), 0), time.Hour, nil)

	if logs.Len() != 0 {
		t.Fatalf("expected no warnings, got %v", logs.All())
	}
}

func TestQueryLogger_EndWithoutStart(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	l := NewQueryLogger(zap.New(core), time.Second)
	l.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})

	if logs.Len() != 0 {
		t.Fatalf("expected no entries, got %v", logs.All())
	}
}
