package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/holocron/internal/character"
	"github.com/hitoshi/holocron/internal/model"
)

// CharacterServiceInterface はキャラクターハンドラーが必要とするサービスインターフェース。
type CharacterServiceInterface interface {
	ListCharacters(ctx context.Context) ([]*model.Character, error)
	GetCharacter(ctx context.Context, id int64) (*model.Character, error)
	CreateCharacter(ctx context.Context, params character.CreateParams) (*model.Character, error)
}

// characterResponse はキャラクター情報のAPIレスポンス。
type characterResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Gender  string `json:"gender"`
}

// CharacterHandler はキャラクター管理のHTTPハンドラー。
type CharacterHandler struct {
	service  CharacterServiceInterface
	recorder EntityRecorder
}

// NewCharacterHandler はCharacterHandlerを生成する。recorderはnilでもよい。
func NewCharacterHandler(service CharacterServiceInterface, recorder EntityRecorder) *CharacterHandler {
	return &CharacterHandler{
		service:  service,
		recorder: entityRecorderOrNoop(recorder),
	}
}

// ListCharacters は全キャラクターを返す。
// GET /people
func (h *CharacterHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := h.service.ListCharacters(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]characterResponse, len(characters))
	for i, c := range characters {
		resp[i] = toCharacterResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCharacter は指定IDのキャラクターを返す。
// GET /people/{people_id}
func (h *CharacterHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	id, apiErr := parseIDParam(r, "people_id")
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	c, err := h.service.GetCharacter(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCharacterResponse(c))
}

// CreateCharacter はキャラクターを作成する。
// POST /people
func (h *CharacterHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req character.CreateParams
	if apiErr := decodeJSONBody(w, r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	c, err := h.service.CreateCharacter(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.recorder.RecordEntityCreated("character")
	writeJSON(w, http.StatusCreated, toCharacterResponse(c))
}

func toCharacterResponse(c *model.Character) characterResponse {
	return characterResponse{
		ID:      c.ID,
		Name:    c.Name,
		Species: c.Species,
		Gender:  c.Gender,
	}
}
