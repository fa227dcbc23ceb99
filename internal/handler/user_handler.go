package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	ListUsers(ctx context.Context) ([]*model.UserWithFavorites, error)
	GetUser(ctx context.Context, id int64) (*model.UserWithFavorites, error)
	CreateUser(ctx context.Context, params user.CreateParams) (*model.UserWithFavorites, error)
}

// EntityRecorder はエンティティ作成のメトリクスを記録するインターフェース。
type EntityRecorder interface {
	RecordEntityCreated(entity string)
}

type noopEntityRecorder struct{}

func (noopEntityRecorder) RecordEntityCreated(string) {}

func entityRecorderOrNoop(recorder EntityRecorder) EntityRecorder {
	if recorder == nil {
		return noopEntityRecorder{}
	}
	return recorder
}

// userResponse はユーザー情報のAPIレスポンス。パスワードは含めない。
type userResponse struct {
	ID               int64              `json:"id"`
	Email            string             `json:"email"`
	Name             string             `json:"name"`
	LastName         string             `json:"last_name"`
	IsActive         bool               `json:"is_active"`
	RegistrationDate time.Time          `json:"registration_date"`
	Favorites        []favoriteResponse `json:"favorites"`
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service  UserServiceInterface
	recorder EntityRecorder
}

// NewUserHandler はUserHandlerを生成する。recorderはnilでもよい。
func NewUserHandler(service UserServiceInterface, recorder EntityRecorder) *UserHandler {
	return &UserHandler{
		service:  service,
		recorder: entityRecorderOrNoop(recorder),
	}
}

// ListUsers は全ユーザーをお気に入り付きで返す。
// GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetUser は指定IDのユーザーを返す。
// GET /users/{user_id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, apiErr := parseIDParam(r, "user_id")
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// CreateUser はユーザーを作成する。
// POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateParams
	if apiErr := decodeJSONBody(w, r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	u, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.recorder.RecordEntityCreated("user")
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// toUserResponse はmodel.UserWithFavoritesからAPIレスポンスに変換する。
func toUserResponse(u *model.UserWithFavorites) userResponse {
	return userResponse{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		LastName:         u.LastName,
		IsActive:         u.IsActive,
		RegistrationDate: u.RegistrationDate,
		Favorites:        toFavoriteResponses(u.Favorites),
	}
}
