package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/hitoshi/holocron/internal/character"
	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/planet"
	"github.com/hitoshi/holocron/internal/validation"
)

func TestCharacterHandler_ListCharacters_Empty(t *testing.T) {
	h := NewCharacterHandler(&mockCharacterService{}, nil)
	w := httptest.NewRecorder()

	h.ListCharacters(w, httptest.NewRequest(http.MethodGet, "/people", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}

func TestCharacterHandler_GetCharacter(t *testing.T) {
	svc := &mockCharacterService{
		getFn: func(ctx context.Context, id int64) (*model.Character, error) {
			if id == 1 {
				return &model.Character{ID: 1, Name: "Luke Skywalker", Species: "Human", Gender: "male"}, nil
			}
			return nil, model.NewCharacterNotFoundError(id)
		},
	}
	h := NewCharacterHandler(svc, nil)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/people/1", nil), map[string]string{"people_id": "1"})
	w := httptest.NewRecorder()
	h.GetCharacter(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body characterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	want := characterResponse{ID: 1, Name: "Luke Skywalker", Species: "Human", Gender: "male"}
	if body != want {
		t.Errorf("body = %+v, want %+v", body, want)
	}

	req = withURLParams(httptest.NewRequest(http.MethodGet, "/people/9", nil), map[string]string{"people_id": "9"})
	w = httptest.NewRecorder()
	h.GetCharacter(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing character: status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCharacterHandler_CreateCharacter_ValidationError(t *testing.T) {
	svc := &mockCharacterService{
		createFn: func(ctx context.Context, params character.CreateParams) (*model.Character, error) {
			if err := validation.ValidateStruct(params); err != nil {
				return nil, err
			}
			return &model.Character{ID: 1, Name: params.Name}, nil
		},
	}
	h := NewCharacterHandler(svc, nil)
	w := httptest.NewRecorder()

	h.CreateCharacter(w, httptest.NewRequest(http.MethodPost, "/people", strings.NewReader(`{"name":"Yoda"}`)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeValidation {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeValidation)
	}
}

func TestPlanetHandler_CreatePlanet(t *testing.T) {
	recorder := &mockEntityRecorder{}
	svc := &mockPlanetService{
		createFn: func(ctx context.Context, params planet.CreateParams) (*model.Planet, error) {
			return &model.Planet{
				ID: 1, Name: params.Name, Size: *params.Size, Climate: params.Climate, Population: *params.Population,
			}, nil
		},
	}
	h := NewPlanetHandler(svc, recorder)

	body := `{"name":"Tatooine","size":10465,"climate":"arid","population":200000}`
	w := httptest.NewRecorder()
	h.CreatePlanet(w, httptest.NewRequest(http.MethodPost, "/planet", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var got planetResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	want := planetResponse{ID: 1, Name: "Tatooine", Size: 10465, Climate: "arid", Population: 200000}
	if got != want {
		t.Errorf("body = %+v, want %+v", got, want)
	}
	if len(recorder.created) != 1 || recorder.created[0] != "planet" {
		t.Errorf("recorded = %v, want [planet]", recorder.created)
	}
}

func TestPlanetHandler_CreatePlanet_NonIntegerSize(t *testing.T) {
	called := false
	svc := &mockPlanetService{
		createFn: func(ctx context.Context, params planet.CreateParams) (*model.Planet, error) {
			called = true
			return nil, nil
		},
	}
	h := NewPlanetHandler(svc, nil)

	body := `{"name":"Hoth","size":7.5,"climate":"frozen","population":0}`
	w := httptest.NewRecorder()
	h.CreatePlanet(w, httptest.NewRequest(http.MethodPost, "/planet", strings.NewReader(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := decodeErrorBody(t, w); body.Category != model.CategoryValidation {
		t.Errorf("category = %q, want %q", body.Category, model.CategoryValidation)
	}
	if called {
		t.Error("service should not be called when the body fails to decode")
	}
}

func TestPlanetHandler_GetPlanet_InvalidID(t *testing.T) {
	h := NewPlanetHandler(&mockPlanetService{}, nil)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/planet/-1", nil), map[string]string{"planet_id": "-1"})
	w := httptest.NewRecorder()
	h.GetPlanet(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeInvalidID {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidID)
	}
}
