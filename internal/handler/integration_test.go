package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/holocron/internal/character"
	"github.com/hitoshi/holocron/internal/favorite"
	"github.com/hitoshi/holocron/internal/metrics"
	"github.com/hitoshi/holocron/internal/middleware"
	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/planet"
	"github.com/hitoshi/holocron/internal/repository"
	"github.com/hitoshi/holocron/internal/user"
)

// --- 統合テスト用のインメモリリポジトリ ---

// memStore はリポジトリ全体で共有するインメモリの状態を保持する。
type memStore struct {
	mu         sync.Mutex
	users      []*model.User
	characters []*model.Character
	planets    []*model.Planet
	favorites  []*model.Favorite
	nextFavID  int64
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memUserRepo) List(ctx context.Context) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*model.User(nil), r.s.users...), nil
}

func (r memUserRepo) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = int64(len(r.s.users) + 1)
	u.RegistrationDate = time.Now().UTC()
	cp := *u
	r.s.users = append(r.s.users, &cp)
	return nil
}

type memCharacterRepo struct{ s *memStore }

func (r memCharacterRepo) FindByID(ctx context.Context, id int64) (*model.Character, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.characters {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r memCharacterRepo) List(ctx context.Context) ([]*model.Character, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*model.Character(nil), r.s.characters...), nil
}

func (r memCharacterRepo) Create(ctx context.Context, c *model.Character) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = int64(len(r.s.characters) + 1)
	r.s.characters = append(r.s.characters, c)
	return nil
}

type memPlanetRepo struct{ s *memStore }

func (r memPlanetRepo) FindByID(ctx context.Context, id int64) (*model.Planet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.planets {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r memPlanetRepo) List(ctx context.Context) ([]*model.Planet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*model.Planet(nil), r.s.planets...), nil
}

func (r memPlanetRepo) Create(ctx context.Context, p *model.Planet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = int64(len(r.s.planets) + 1)
	r.s.planets = append(r.s.planets, p)
	return nil
}

type memFavoriteRepo struct{ s *memStore }

func (r memFavoriteRepo) targetName(t model.FavoriteTarget) string {
	switch t.Kind {
	case model.TargetCharacter:
		for _, c := range r.s.characters {
			if c.ID == t.ID {
				return c.Name
			}
		}
	case model.TargetPlanet:
		for _, p := range r.s.planets {
			if p.ID == t.ID {
				return p.Name
			}
		}
	}
	return ""
}

func (r memFavoriteRepo) find(userID int64, target model.FavoriteTarget) *model.Favorite {
	for _, f := range r.s.favorites {
		if f.UserID == userID && f.Target == target {
			return f
		}
	}
	return nil
}

func (r memFavoriteRepo) FindByUserAndTarget(ctx context.Context, userID int64, target model.FavoriteTarget) (*model.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(userID, target), nil
}

func (r memFavoriteRepo) Create(ctx context.Context, userID int64, target model.FavoriteTarget) (*model.Favorite, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f := r.find(userID, target); f != nil {
		return f, false, nil
	}
	r.s.nextFavID++
	f := &model.Favorite{
		ID: r.s.nextFavID, UserID: userID, Target: target,
		TargetName: r.targetName(target), CreatedAt: time.Now(),
	}
	r.s.favorites = append(r.s.favorites, f)
	return f, true, nil
}

func (r memFavoriteRepo) DeleteByUserAndTarget(ctx context.Context, userID int64, target model.FavoriteTarget) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, f := range r.s.favorites {
		if f.UserID == userID && f.Target == target {
			r.s.favorites = append(r.s.favorites[:i], r.s.favorites[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r memFavoriteRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var favs []*model.Favorite
	for _, f := range r.s.favorites {
		if f.UserID == userID {
			favs = append(favs, f)
		}
	}
	return favs, nil
}

func (r memFavoriteRepo) ListByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]*model.Favorite, error) {
	result := make(map[int64][]*model.Favorite, len(userIDs))
	for _, id := range userIDs {
		favs, _ := r.ListByUserID(ctx, id)
		result[id] = favs
	}
	return result, nil
}

// --- 統合テスト用ルーター構築ヘルパー ---

type integrationEnv struct {
	server   *httptest.Server
	registry *prometheus.Registry
	limiter  *middleware.RateLimiter
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()

	store := &memStore{}
	userRepo := memUserRepo{store}
	characterRepo := memCharacterRepo{store}
	planetRepo := memPlanetRepo{store}
	favRepo := memFavoriteRepo{store}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig(), collector)

	router := NewRouter(&RouterDeps{
		Logger:             slog.New(slog.NewJSONHandler(io.Discard, nil)),
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		RateLimiter:        limiter,
		HealthChecker:      &mockHealthChecker{},
		Metrics:            collector,
		MetricsGatherer:    reg,
		UserService:        user.NewService(userRepo, favRepo),
		CharacterService:   character.NewService(characterRepo),
		PlanetService:      planet.NewService(planetRepo),
		FavoriteService:    favorite.NewService(userRepo, characterRepo, planetRepo, favRepo, collector),
	})

	env := &integrationEnv{
		server:   httptest.NewServer(router),
		registry: reg,
		limiter:  limiter,
	}
	t.Cleanup(func() {
		env.server.Close()
		env.limiter.Stop()
	})
	return env
}

func (e *integrationEnv) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp.StatusCode, data
}

func (e *integrationEnv) mustStatus(t *testing.T, method, path, body string, want int) []byte {
	t.Helper()
	status, data := e.do(t, method, path, body)
	if status != want {
		t.Fatalf("%s %s: status = %d, want %d (body: %s)", method, path, status, want, data)
	}
	return data
}

// --- 統合テスト ---

// TestIntegration_PlanetFavoriteLifecycle は惑星の作成からお気に入り登録・一覧・解除までの流れを検証する。
func TestIntegration_PlanetFavoriteLifecycle(t *testing.T) {
	env := newIntegrationEnv(t)

	env.mustStatus(t, http.MethodPost, "/users",
		`{"email":"luke@example.com","password":"secret","name":"Luke","last_name":"Skywalker"}`, http.StatusCreated)

	data := env.mustStatus(t, http.MethodPost, "/planet",
		`{"name":"Tatooine","size":10465,"climate":"arid","population":200000}`, http.StatusCreated)
	var p planetResponse
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("failed to decode planet: %v", err)
	}
	if p != (planetResponse{ID: 1, Name: "Tatooine", Size: 10465, Climate: "arid", Population: 200000}) {
		t.Errorf("planet = %+v", p)
	}

	data = env.mustStatus(t, http.MethodPost, "/favorite/planet/1/1", "", http.StatusCreated)
	var fav favoriteResponse
	if err := json.Unmarshal(data, &fav); err != nil {
		t.Fatalf("failed to decode favorite: %v", err)
	}
	if fav != (favoriteResponse{ID: 1, Type: "planet", Name: "Tatooine"}) {
		t.Errorf("favorite = %+v", fav)
	}

	// 再登録は同じお気に入りを200で返す
	data = env.mustStatus(t, http.MethodPost, "/favorite/planet/1/1", "", http.StatusOK)
	var again favoriteResponse
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("failed to decode favorite: %v", err)
	}
	if again.ID != fav.ID {
		t.Errorf("re-add returned id %d, want %d", again.ID, fav.ID)
	}

	data = env.mustStatus(t, http.MethodGet, "/users", "", http.StatusOK)
	var users []userResponse
	if err := json.Unmarshal(data, &users); err != nil {
		t.Fatalf("failed to decode users: %v", err)
	}
	if len(users) != 1 || len(users[0].Favorites) != 1 || users[0].Favorites[0] != fav {
		t.Fatalf("users = %+v", users)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("user listing must not expose the password")
	}

	env.mustStatus(t, http.MethodDelete, "/favorite/planet/1/1", "", http.StatusNoContent)
	env.mustStatus(t, http.MethodDelete, "/favorite/planet/1/1", "", http.StatusNotFound)

	data = env.mustStatus(t, http.MethodGet, "/users/1/favorites", "", http.StatusOK)
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("favorites after remove = %s, want []", data)
	}
}

// TestIntegration_CharacterFavoriteErrors はお気に入り登録・解除のエラー応答を検証する。
func TestIntegration_CharacterFavoriteErrors(t *testing.T) {
	env := newIntegrationEnv(t)

	env.mustStatus(t, http.MethodPost, "/users",
		`{"email":"leia@example.com","password":"p","name":"Leia","last_name":"Organa"}`, http.StatusCreated)
	env.mustStatus(t, http.MethodPost, "/people",
		`{"name":"Luke Skywalker","species":"Human","gender":"male"}`, http.StatusCreated)

	// 存在しないキャラクター
	env.mustStatus(t, http.MethodPost, "/favorite/character/1/999", "", http.StatusBadRequest)
	// 存在しないユーザー
	env.mustStatus(t, http.MethodPost, "/favorite/character/42/1", "", http.StatusBadRequest)
	// 未登録のお気に入り解除
	env.mustStatus(t, http.MethodDelete, "/favorite/character/1/42", "", http.StatusNotFound)

	env.mustStatus(t, http.MethodPost, "/favorite/character/1/1", "", http.StatusCreated)
	// 旧パスでの解除
	env.mustStatus(t, http.MethodDelete, "/favorite/people/1/1", "", http.StatusNoContent)
}

// TestIntegration_CreateAndGet は作成したエンティティを同じ内容で取得できることを検証する。
func TestIntegration_CreateAndGet(t *testing.T) {
	env := newIntegrationEnv(t)

	env.mustStatus(t, http.MethodPost, "/people",
		`{"name":"Yoda","species":"Yoda's species","gender":"male"}`, http.StatusCreated)
	data := env.mustStatus(t, http.MethodGet, "/people/1", "", http.StatusOK)

	var c characterResponse
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if c != (characterResponse{ID: 1, Name: "Yoda", Species: "Yoda's species", Gender: "male"}) {
		t.Errorf("character = %+v", c)
	}

	env.mustStatus(t, http.MethodGet, "/people/2", "", http.StatusNotFound)
	env.mustStatus(t, http.MethodGet, "/people/abc", "", http.StatusBadRequest)
	env.mustStatus(t, http.MethodPost, "/people", `{"name":"Chewbacca"}`, http.StatusBadRequest)

	// メールアドレス重複は409
	body := `{"email":"dup@example.com","password":"p","name":"A","last_name":"B"}`
	env.mustStatus(t, http.MethodPost, "/users", body, http.StatusCreated)
	env.mustStatus(t, http.MethodPost, "/users", body, http.StatusConflict)

	data = env.mustStatus(t, http.MethodGet, "/users/1", "", http.StatusOK)
	var u userResponse
	if err := json.Unmarshal(data, &u); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !u.IsActive || u.RegistrationDate.IsZero() || u.Favorites == nil {
		t.Errorf("user = %+v, want active with registration date and empty favorites", u)
	}
}

// TestIntegration_HealthAndMetrics は/healthと/metricsがAPIルートと同じサーバーで提供されることを検証する。
func TestIntegration_HealthAndMetrics(t *testing.T) {
	env := newIntegrationEnv(t)

	data := env.mustStatus(t, http.MethodGet, "/health", "", http.StatusOK)
	if !strings.Contains(string(data), `"ok"`) {
		t.Errorf("health body = %s", data)
	}

	env.mustStatus(t, http.MethodGet, "/planet", "", http.StatusOK)
	env.mustStatus(t, http.MethodGet, "/unknown", "", http.StatusNotFound)

	data = env.mustStatus(t, http.MethodGet, "/metrics", "", http.StatusOK)
	for _, want := range []string{
		`holocron_http_requests_total{method="GET",route="/planet",status_code="200"} 1`,
		`route="unmatched",status_code="404"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics output does not contain %q", want)
		}
	}
}

// TestIntegration_ResponseHeaders はリクエストIDとセキュリティヘッダーが付与されることを検証する。
func TestIntegration_ResponseHeaders(t *testing.T) {
	env := newIntegrationEnv(t)

	resp, err := http.Get(env.server.URL + "/people")
	if err != nil {
		t.Fatalf("GET /people failed: %v", err)
	}
	resp.Body.Close()

	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Errorf("missing %s header", middleware.RequestIDHeader)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}
