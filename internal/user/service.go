// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/repository"
	"github.com/hitoshi/holocron/internal/validation"
)

// FavoriteLister はユーザーごとのお気に入り一覧を取得するインターフェース。
type FavoriteLister interface {
	ListByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]*model.Favorite, error)
}

// CreateParams はユーザー作成の入力。
// IsActiveが未指定の場合は有効なユーザーとして作成する。
type CreateParams struct {
	Email    string `json:"email" validate:"required,max=120"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=120"`
	LastName string `json:"last_name" validate:"required,max=120"`
	IsActive *bool  `json:"is_active"`
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo  repository.UserRepository
	favorites FavoriteLister
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, favorites FavoriteLister) *Service {
	return &Service{
		userRepo:  userRepo,
		favorites: favorites,
	}
}

// ListUsers は全ユーザーをお気に入り一覧付きで返す。
// お気に入りは全ユーザー分を1回のクエリで取得する。
func (s *Service) ListUsers(ctx context.Context) ([]*model.UserWithFavorites, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	favs, err := s.favorites.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}

	results := make([]*model.UserWithFavorites, len(users))
	for i, u := range users {
		results[i] = &model.UserWithFavorites{User: *u, Favorites: favs[u.ID]}
	}
	return results, nil
}

// GetUser は指定IDのユーザーをお気に入り一覧付きで返す。
func (s *Service) GetUser(ctx context.Context, id int64) (*model.UserWithFavorites, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError(id)
	}

	favs, err := s.favorites.ListByUserIDs(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}

	return &model.UserWithFavorites{User: *u, Favorites: favs[id]}, nil
}

// CreateUser はユーザーを作成する。
// パスワードは不透明な値としてそのまま保存する。登録日時はサーバー側で設定する。
func (s *Service) CreateUser(ctx context.Context, params CreateParams) (*model.UserWithFavorites, error) {
	if err := validation.ValidateStruct(params); err != nil {
		return nil, err
	}

	u := &model.User{
		Email:    params.Email,
		Password: params.Password,
		IsActive: true,
		Name:     params.Name,
		LastName: params.LastName,
	}
	if params.IsActive != nil {
		u.IsActive = *params.IsActive
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailAlreadyExistsError(params.Email)
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("ユーザーを作成しました",
		slog.Int64("user_id", u.ID),
	)

	return &model.UserWithFavorites{User: *u}, nil
}
