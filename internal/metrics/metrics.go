// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// HTTPミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
	RecordRateLimited(limiter string)
	RecordEntityCreated(entity string)
	RecordFavoriteAdded(kind string, created bool)
	RecordFavoriteRemoved(kind string)
}

// お気に入り登録結果のラベル値
const (
	resultCreated  = "created"
	resultExisting = "existing"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	rateLimited      *prometheus.CounterVec
	entitiesCreated  *prometheus.CounterVec
	favoritesAdded   *prometheus.CounterVec
	favoritesRemoved *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holocron_http_requests_total",
			Help: "メソッド・ルート・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "holocron_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holocron_rate_limited_total",
			Help: "レート制限により拒否されたリクエスト数",
		}, []string{"limiter"}),
		entitiesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holocron_entities_created_total",
			Help: "種別ごとの作成されたエンティティ数",
		}, []string{"entity"}),
		favoritesAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holocron_favorites_added_total",
			Help: "お気に入り登録リクエスト数（result=created|existing）",
		}, []string{"type", "result"}),
		favoritesRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holocron_favorites_removed_total",
			Help: "解除されたお気に入りの数",
		}, []string{"type"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.rateLimited,
		c.entitiesCreated,
		c.favoritesAdded,
		c.favoritesRemoved,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの件数と処理時間を記録する。
// routeにはchiのルートパターン（例: /users/{user_id}）を渡し、ラベルの爆発を防ぐ。
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRateLimited はレート制限による拒否を記録する。
func (c *Collector) RecordRateLimited(limiter string) {
	c.rateLimited.WithLabelValues(limiter).Inc()
}

// RecordEntityCreated はエンティティの作成を記録する。
func (c *Collector) RecordEntityCreated(entity string) {
	c.entitiesCreated.WithLabelValues(entity).Inc()
}

// RecordFavoriteAdded はお気に入り登録を記録する。
func (c *Collector) RecordFavoriteAdded(kind string, created bool) {
	result := resultExisting
	if created {
		result = resultCreated
	}
	c.favoritesAdded.WithLabelValues(kind, result).Inc()
}

// RecordFavoriteRemoved はお気に入り解除を記録する。
func (c *Collector) RecordFavoriteRemoved(kind string) {
	c.favoritesRemoved.WithLabelValues(kind).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
