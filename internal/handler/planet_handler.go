package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/planet"
)

// PlanetServiceInterface は惑星ハンドラーが必要とするサービスインターフェース。
type PlanetServiceInterface interface {
	ListPlanets(ctx context.Context) ([]*model.Planet, error)
	GetPlanet(ctx context.Context, id int64) (*model.Planet, error)
	CreatePlanet(ctx context.Context, params planet.CreateParams) (*model.Planet, error)
}

// planetResponse は惑星情報のAPIレスポンス。
type planetResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Climate    string `json:"climate"`
	Population int64  `json:"population"`
}

// PlanetHandler は惑星管理のHTTPハンドラー。
type PlanetHandler struct {
	service  PlanetServiceInterface
	recorder EntityRecorder
}

// NewPlanetHandler はPlanetHandlerを生成する。recorderはnilでもよい。
func NewPlanetHandler(service PlanetServiceInterface, recorder EntityRecorder) *PlanetHandler {
	return &PlanetHandler{
		service:  service,
		recorder: entityRecorderOrNoop(recorder),
	}
}

// ListPlanets は全惑星を返す。
// GET /planet
func (h *PlanetHandler) ListPlanets(w http.ResponseWriter, r *http.Request) {
	planets, err := h.service.ListPlanets(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]planetResponse, len(planets))
	for i, p := range planets {
		resp[i] = toPlanetResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPlanet は指定IDの惑星を返す。
// GET /planet/{planet_id}
func (h *PlanetHandler) GetPlanet(w http.ResponseWriter, r *http.Request) {
	id, apiErr := parseIDParam(r, "planet_id")
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	p, err := h.service.GetPlanet(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanetResponse(p))
}

// CreatePlanet は惑星を作成する。sizeとpopulationは整数で指定する必要がある。
// POST /planet
func (h *PlanetHandler) CreatePlanet(w http.ResponseWriter, r *http.Request) {
	var req planet.CreateParams
	if apiErr := decodeJSONBody(w, r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	p, err := h.service.CreatePlanet(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.recorder.RecordEntityCreated("planet")
	writeJSON(w, http.StatusCreated, toPlanetResponse(p))
}

func toPlanetResponse(p *model.Planet) planetResponse {
	return planetResponse{
		ID:         p.ID,
		Name:       p.Name,
		Size:       p.Size,
		Climate:    p.Climate,
		Population: p.Population,
	}
}
