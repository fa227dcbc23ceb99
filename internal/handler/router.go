package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/holocron/internal/metrics"
	"github.com/hitoshi/holocron/internal/middleware"
	"github.com/hitoshi/holocron/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger             *slog.Logger
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter

	// ヘルスチェック・メトリクス
	HealthChecker HealthChecker
	// Metrics がnilの場合はHTTPメトリクスとエンティティ作成数を記録しない。
	Metrics metrics.MetricsCollector
	// MetricsGatherer がnilの場合は/metricsを公開しない。
	MetricsGatherer prometheus.Gatherer

	// ドメインサービス
	UserService      UserServiceInterface
	CharacterService CharacterServiceInterface
	PlanetService    PlanetServiceInterface
	FavoriteService  FavoriteServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Logging → Recovery → Metrics → SecurityHeaders → CORS → RateLimit(General)
//
// /healthと/metricsはレート制限の対象外とする。
// お気に入りの登録・解除にはAPI全般に加えて専用のレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(chimw.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:     "ROUTE_NOT_FOUND",
			Message:  "指定されたパスは存在しません。",
			Category: model.CategoryNotFound,
			Action:   "URLを確認してください。",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeAPIErrorResponse(w, http.StatusMethodNotAllowed, &model.APIError{
			Code:     "METHOD_NOT_ALLOWED",
			Message:  "このパスでは指定されたメソッドを使用できません。",
			Category: model.CategoryValidation,
			Action:   "HTTPメソッドを確認してください。",
		})
	})

	var recorder EntityRecorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}

	healthHandler := NewHealthHandler(deps.HealthChecker)
	userHandler := NewUserHandler(deps.UserService, recorder)
	characterHandler := NewCharacterHandler(deps.CharacterService, recorder)
	planetHandler := NewPlanetHandler(deps.PlanetService, recorder)
	favoriteHandler := NewFavoriteHandler(deps.FavoriteService)

	// --- レート制限対象外のルート ---
	r.Get("/health", healthHandler.Health)
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- APIルート ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// ユーザー
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Get("/{user_id}", userHandler.GetUser)
			r.Get("/{user_id}/favorites", favoriteHandler.ListFavorites)
		})

		// キャラクター
		r.Route("/people", func(r chi.Router) {
			r.Get("/", characterHandler.ListCharacters)
			r.Post("/", characterHandler.CreateCharacter)
			r.Get("/{people_id}", characterHandler.GetCharacter)
		})

		// 惑星
		r.Route("/planet", func(r chi.Router) {
			r.Get("/", planetHandler.ListPlanets)
			r.Post("/", planetHandler.CreatePlanet)
			r.Get("/{planet_id}", planetHandler.GetPlanet)
		})

		// お気に入り（登録・解除専用のレート制限を追加）
		r.Route("/favorite", func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.FavoriteMiddleware())
			}

			r.Post("/character/{user_id}/{character_id}", favoriteHandler.AddCharacterFavorite)
			r.Delete("/character/{user_id}/{character_id}", favoriteHandler.RemoveCharacterFavorite)
			r.Delete("/people/{user_id}/{people_id}", favoriteHandler.RemoveCharacterFavoriteLegacy)

			r.Post("/planet/{user_id}/{planet_id}", favoriteHandler.AddPlanetFavorite)
			r.Delete("/planet/{user_id}/{planet_id}", favoriteHandler.RemovePlanetFavorite)
		})
	})

	return r
}
