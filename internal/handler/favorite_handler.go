package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/hitoshi/holocron/internal/favorite"
	"github.com/hitoshi/holocron/internal/model"
)

// FavoriteServiceInterface はお気に入りハンドラーが必要とするサービスインターフェース。
type FavoriteServiceInterface interface {
	AddCharacterFavorite(ctx context.Context, userID, characterID int64) (*favorite.AddResult, error)
	AddPlanetFavorite(ctx context.Context, userID, planetID int64) (*favorite.AddResult, error)
	RemoveCharacterFavorite(ctx context.Context, userID, characterID int64) error
	RemovePlanetFavorite(ctx context.Context, userID, planetID int64) error
	ListFavorites(ctx context.Context, userID int64) ([]*model.Favorite, error)
}

// favoriteResponse はお気に入りのAPIレスポンス。
// 対象のIDは含めず、種別と対象の名前のみを返す。
type favoriteResponse struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// FavoriteHandler はお気に入り登録・解除のHTTPハンドラー。
type FavoriteHandler struct {
	service FavoriteServiceInterface
}

// NewFavoriteHandler はFavoriteHandlerを生成する。
func NewFavoriteHandler(service FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// AddCharacterFavorite はキャラクターをお気に入りに登録する。
// POST /favorite/character/{user_id}/{character_id}
func (h *FavoriteHandler) AddCharacterFavorite(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, "character_id", h.service.AddCharacterFavorite)
}

// AddPlanetFavorite は惑星をお気に入りに登録する。
// POST /favorite/planet/{user_id}/{planet_id}
func (h *FavoriteHandler) AddPlanetFavorite(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, "planet_id", h.service.AddPlanetFavorite)
}

// RemoveCharacterFavorite はキャラクターのお気に入りを解除する。
// DELETE /favorite/character/{user_id}/{character_id}
func (h *FavoriteHandler) RemoveCharacterFavorite(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "character_id", h.service.RemoveCharacterFavorite)
}

// RemoveCharacterFavoriteLegacy は旧パスでのキャラクターお気に入り解除。
// DELETE /favorite/people/{user_id}/{people_id}
func (h *FavoriteHandler) RemoveCharacterFavoriteLegacy(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "people_id", h.service.RemoveCharacterFavorite)
}

// RemovePlanetFavorite は惑星のお気に入りを解除する。
// DELETE /favorite/planet/{user_id}/{planet_id}
func (h *FavoriteHandler) RemovePlanetFavorite(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "planet_id", h.service.RemovePlanetFavorite)
}

// ListFavorites はユーザーのお気に入り一覧を返す。
// GET /users/{user_id}/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, apiErr := parseIDParam(r, "user_id")
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	favs, err := h.service.ListFavorites(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFavoriteResponses(favs))
}

type addFunc func(ctx context.Context, userID, targetID int64) (*favorite.AddResult, error)

type removeFunc func(ctx context.Context, userID, targetID int64) error

// add はお気に入り登録の共通処理。
// 新規作成時は201、既存のお気に入りを返した場合は200を返す。
// ユーザーや対象が存在しない場合は入力不正として400を返す。
func (h *FavoriteHandler) add(w http.ResponseWriter, r *http.Request, targetParam string, fn addFunc) {
	// user_idの範囲チェック（USER_ID_REQUIRED）はサービス層で行う
	userID, apiErr := parseInt64Param(r, "user_id")
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	targetID, apiErr := parseInt64Param(r, targetParam)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	result, err := fn(r.Context(), userID, targetID)
	if err != nil {
		var notFound *model.APIError
		if errors.As(err, &notFound) && notFound.Category == model.CategoryNotFound {
			writeAPIErrorResponse(w, http.StatusBadRequest, notFound)
			return
		}
		handleServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toFavoriteResponse(result.Favorite))
}

// remove はお気に入り解除の共通処理。成功時は204、未登録の場合は404を返す。
func (h *FavoriteHandler) remove(w http.ResponseWriter, r *http.Request, targetParam string, fn removeFunc) {
	userID, apiErr := parseIDParam(r, "user_id")
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	targetID, apiErr := parseIDParam(r, targetParam)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	if err := fn(r.Context(), userID, targetID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toFavoriteResponse(f *model.Favorite) favoriteResponse {
	return favoriteResponse{
		ID:   f.ID,
		Type: string(f.Target.Kind),
		Name: f.TargetName,
	}
}

// toFavoriteResponses は空の場合もnullではなく空配列としてシリアライズされるスライスを返す。
func toFavoriteResponses(favs []*model.Favorite) []favoriteResponse {
	resp := make([]favoriteResponse, len(favs))
	for i, f := range favs {
		resp[i] = toFavoriteResponse(f)
	}
	return resp
}
