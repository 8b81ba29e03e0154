package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics はアプリケーションのメトリクスを保持します。
type Metrics struct {
	registry          *prometheus.Registry
	decisions         *prometheus.CounterVec
	rpcDuration       *prometheus.HistogramVec
	creditCacheLookup *prometheus.CounterVec
}

// New は専用のレジストリにメトリクスを登録します。
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_decisions_total",
			Help: "Count of onboarding decisions by result and rejection reason",
		}, []string{"result", "reason"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grpc_server_handling_seconds",
			Help:    "Duration of unary gRPC calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "code"}),
		creditCacheLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "credit_limit_cache_lookups_total",
			Help: "Count of credit limit cache lookups by result",
		}, []string{"result"}),
	}
	reg.MustRegister(m.decisions, m.rpcDuration, m.creditCacheLookup)

	return m
}

// ObserveDecision はオンボーディング判定結果を記録します。
func (m *Metrics) ObserveDecision(accepted bool, reason string) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	if reason == "" {
		reason = "none"
	}
	m.decisions.WithLabelValues(result, reason).Inc()
}

// ObserveRPC は gRPC 呼び出しの所要時間を記録します。
func (m *Metrics) ObserveRPC(method, code string, duration time.Duration) {
	m.rpcDuration.WithLabelValues(method, code).Observe(duration.Seconds())
}

// ObserveCacheLookup は与信枠キャッシュの hit / miss / error を記録します。
func (m *Metrics) ObserveCacheLookup(result string) {
	m.creditCacheLookup.WithLabelValues(result).Inc()
}

// RegisterDBPool は接続プールの接続数をゲージとして公開します。
func (m *Metrics) RegisterDBPool(stats func() (acquired, idle, total int32)) error {
	gauge := func(name, help string, pick func(acquired, idle, total int32) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
			return float64(pick(stats()))
		})
	}

	collectors := []prometheus.Collector{
		gauge("db_pool_acquired_conns", "Number of connections currently in use",
			func(acquired, _, _ int32) int32 { return acquired }),
		gauge("db_pool_idle_conns", "Number of idle connections in the pool",
			func(_, idle, _ int32) int32 { return idle }),
		gauge("db_pool_total_conns", "Total number of connections in the pool",
			func(_, _, total int32) int32 { return total }),
	}

	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return fmt.Errorf("metrics: register db pool: %w", err)
		}
	}
	return nil
}

// Handler は /metrics 用の HTTP ハンドラを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve は listenAddr で /metrics を公開し、コンテキストがキャンセルされると停止します。
func (m *Metrics) Serve(ctx context.Context, listenAddr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
