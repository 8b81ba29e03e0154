package creditscore

import (
	"context"
	"strconv"
	"time"

	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/onboarding"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "credit_limit:"

// Cache は与信枠キャッシュの保存先です。
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CacheObserver はキャッシュ参照の結果 (hit / miss / error) を受け取ります。
type CacheObserver interface {
	ObserveCacheLookup(result string)
}

// CachedLookup は与信サービスの前段に置く読み込み時キャッシュです。
// キャッシュの障害時は与信サービスの呼び出しにフォールバックします。
type CachedLookup struct {
	next     onboarding.CreditScoreLookup
	cache    Cache
	ttl      time.Duration
	logger   *zap.Logger
	observer CacheObserver
}

// NewCachedLookup は CachedLookup を生成します。logger と observer は nil を許容します。
func NewCachedLookup(next onboarding.CreditScoreLookup, cache Cache, ttl time.Duration, logger *zap.Logger, observer CacheObserver) *CachedLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLookup{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
		observer: observer,
	}
}

// GetCreditLimit はキャッシュを参照し、存在しない場合は与信サービスを呼び出して結果を保存します。
func (l *CachedLookup) GetCreditLimit(ctx context.Context, firstName, lastName string, dateOfBirth time.Time) (int, error) {
	key := CacheKey(firstName, lastName, dateOfBirth)

	raw, ok, err := l.cache.Get(ctx, key)
	switch {
	case err != nil:
		l.observe("error")
		l.logger.Warn("credit limit cache read failed", zap.String("key", key), zap.Error(err))
	case ok:
		if limit, convErr := strconv.Atoi(raw); convErr == nil {
			l.observe("hit")
			return limit, nil
		}
		l.observe("error")
		l.logger.Warn("credit limit cache holds a non-numeric value", zap.String("key", key), zap.String("value", raw))
	default:
		l.observe("miss")
	}

	limit, err := l.next.GetCreditLimit(ctx, firstName, lastName, dateOfBirth)
	if err != nil {
		return 0, err
	}

	if err := l.cache.Set(ctx, key, strconv.Itoa(limit), l.ttl); err != nil {
		l.logger.Warn("credit limit cache write failed", zap.String("key", key), zap.Error(err))
	}

	return limit, nil
}

func (l *CachedLookup) observe(result string) {
	if l.observer != nil {
		l.observer.ObserveCacheLookup(result)
	}
}

// CacheKey は氏名と生年月日からキャッシュキーを組み立てます。
func CacheKey(firstName, lastName string, dateOfBirth time.Time) string {
	return cacheKeyPrefix + strconv.Quote(firstName) + "|" + strconv.Quote(lastName) + "|" + dateOfBirth.Format(time.DateOnly)
}
