package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/hitoshi/holocron/internal/character"
	"github.com/hitoshi/holocron/internal/favorite"
	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/planet"
	"github.com/hitoshi/holocron/internal/user"
)

// --- モック定義 ---

type mockUserService struct {
	listUsersFn  func(ctx context.Context) ([]*model.UserWithFavorites, error)
	getUserFn    func(ctx context.Context, id int64) (*model.UserWithFavorites, error)
	createUserFn func(ctx context.Context, params user.CreateParams) (*model.UserWithFavorites, error)
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]*model.UserWithFavorites, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockUserService) GetUser(ctx context.Context, id int64) (*model.UserWithFavorites, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, id)
	}
	return nil, model.NewUserNotFoundError(id)
}

func (m *mockUserService) CreateUser(ctx context.Context, params user.CreateParams) (*model.UserWithFavorites, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, params)
	}
	return nil, errors.New("not implemented")
}

type mockCharacterService struct {
	listFn   func(ctx context.Context) ([]*model.Character, error)
	getFn    func(ctx context.Context, id int64) (*model.Character, error)
	createFn func(ctx context.Context, params character.CreateParams) (*model.Character, error)
}

func (m *mockCharacterService) ListCharacters(ctx context.Context) ([]*model.Character, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCharacterService) GetCharacter(ctx context.Context, id int64) (*model.Character, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewCharacterNotFoundError(id)
}

func (m *mockCharacterService) CreateCharacter(ctx context.Context, params character.CreateParams) (*model.Character, error) {
	if m.createFn != nil {
		return m.createFn(ctx, params)
	}
	return nil, errors.New("not implemented")
}

type mockPlanetService struct {
	listFn   func(ctx context.Context) ([]*model.Planet, error)
	getFn    func(ctx context.Context, id int64) (*model.Planet, error)
	createFn func(ctx context.Context, params planet.CreateParams) (*model.Planet, error)
}

func (m *mockPlanetService) ListPlanets(ctx context.Context) ([]*model.Planet, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPlanetService) GetPlanet(ctx context.Context, id int64) (*model.Planet, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewPlanetNotFoundError(id)
}

func (m *mockPlanetService) CreatePlanet(ctx context.Context, params planet.CreateParams) (*model.Planet, error) {
	if m.createFn != nil {
		return m.createFn(ctx, params)
	}
	return nil, errors.New("not implemented")
}

type mockFavoriteService struct {
	addCharacterFn    func(ctx context.Context, userID, characterID int64) (*favorite.AddResult, error)
	addPlanetFn       func(ctx context.Context, userID, planetID int64) (*favorite.AddResult, error)
	removeCharacterFn func(ctx context.Context, userID, characterID int64) error
	removePlanetFn    func(ctx context.Context, userID, planetID int64) error
	listFn            func(ctx context.Context, userID int64) ([]*model.Favorite, error)
}

func (m *mockFavoriteService) AddCharacterFavorite(ctx context.Context, userID, characterID int64) (*favorite.AddResult, error) {
	if m.addCharacterFn != nil {
		return m.addCharacterFn(ctx, userID, characterID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockFavoriteService) AddPlanetFavorite(ctx context.Context, userID, planetID int64) (*favorite.AddResult, error) {
	if m.addPlanetFn != nil {
		return m.addPlanetFn(ctx, userID, planetID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockFavoriteService) RemoveCharacterFavorite(ctx context.Context, userID, characterID int64) error {
	if m.removeCharacterFn != nil {
		return m.removeCharacterFn(ctx, userID, characterID)
	}
	return nil
}

func (m *mockFavoriteService) RemovePlanetFavorite(ctx context.Context, userID, planetID int64) error {
	if m.removePlanetFn != nil {
		return m.removePlanetFn(ctx, userID, planetID)
	}
	return nil
}

func (m *mockFavoriteService) ListFavorites(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

type mockEntityRecorder struct {
	created []string
}

func (m *mockEntityRecorder) RecordEntityCreated(entity string) {
	m.created = append(m.created, entity)
}

// --- テストヘルパー ---

// withURLParams はchiのURLパラメータをリクエストに設定する。
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorBody はエラーレスポンスのボディをデコードする。
func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) apiErrorBody {
	t.Helper()
	var body apiErrorBody
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return body
}

type apiErrorBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}
