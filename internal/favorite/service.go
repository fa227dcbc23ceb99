// Package favorite はお気に入り登録・解除のドメインロジックを提供する。
//
// お気に入りは(user, target)ごとに「未登録」と「登録済み」の2状態のみを持つ。
// 登録済みの対象を再登録しても新しい行は作られず、既存の行がそのまま返る。
package favorite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/repository"
)

// Recorder はお気に入り操作のメトリクスを記録するインターフェース。
type Recorder interface {
	RecordFavoriteAdded(kind string, created bool)
	RecordFavoriteRemoved(kind string)
}

type noopRecorder struct{}

func (noopRecorder) RecordFavoriteAdded(string, bool) {}
func (noopRecorder) RecordFavoriteRemoved(string)     {}

// AddResult はお気に入り登録の結果を表す。
// Createdがfalseの場合は既存のお気に入りをそのまま返したことを示す。
type AddResult struct {
	Favorite *model.Favorite
	Created  bool
}

// Service はお気に入りのサービス層。
type Service struct {
	userRepo      repository.UserRepository
	characterRepo repository.CharacterRepository
	planetRepo    repository.PlanetRepository
	favoriteRepo  repository.FavoriteRepository
	recorder      Recorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderがnilの場合はメトリクスを記録しない。
func NewService(
	userRepo repository.UserRepository,
	characterRepo repository.CharacterRepository,
	planetRepo repository.PlanetRepository,
	favoriteRepo repository.FavoriteRepository,
	recorder Recorder,
) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		userRepo:      userRepo,
		characterRepo: characterRepo,
		planetRepo:    planetRepo,
		favoriteRepo:  favoriteRepo,
		recorder:      recorder,
	}
}

// AddCharacterFavorite はキャラクターをお気に入りに登録する。
func (s *Service) AddCharacterFavorite(ctx context.Context, userID, characterID int64) (*AddResult, error) {
	return s.add(ctx, userID, model.CharacterTarget(characterID))
}

// AddPlanetFavorite は惑星をお気に入りに登録する。
func (s *Service) AddPlanetFavorite(ctx context.Context, userID, planetID int64) (*AddResult, error) {
	return s.add(ctx, userID, model.PlanetTarget(planetID))
}

// RemoveCharacterFavorite はキャラクターのお気に入りを解除する。
func (s *Service) RemoveCharacterFavorite(ctx context.Context, userID, characterID int64) error {
	return s.remove(ctx, userID, model.CharacterTarget(characterID))
}

// RemovePlanetFavorite は惑星のお気に入りを解除する。
func (s *Service) RemovePlanetFavorite(ctx context.Context, userID, planetID int64) error {
	return s.remove(ctx, userID, model.PlanetTarget(planetID))
}

// ListFavorites はユーザーのお気に入り一覧を返す。
func (s *Service) ListFavorites(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	favs, err := s.favoriteRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	return favs, nil
}

// add はお気に入り登録の共通処理。
// 処理順序: user_id検証 → ユーザー存在確認 → 対象存在確認 → 既存行の確認 → 挿入
func (s *Service) add(ctx context.Context, userID int64, target model.FavoriteTarget) (*AddResult, error) {
	if userID <= 0 {
		return nil, model.NewUserIDRequiredError()
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.ensureTarget(ctx, target); err != nil {
		return nil, err
	}

	existing, err := s.favoriteRepo.FindByUserAndTarget(ctx, userID, target)
	if err != nil {
		return nil, fmt.Errorf("お気に入りの検索に失敗しました: %w", err)
	}
	if existing != nil {
		s.recorder.RecordFavoriteAdded(string(target.Kind), false)
		return &AddResult{Favorite: existing, Created: false}, nil
	}

	// 検索と挿入の間に同じ行が作られた場合、Createは既存行をcreated=falseで返す
	fav, created, err := s.favoriteRepo.Create(ctx, userID, target)
	if err != nil {
		return nil, fmt.Errorf("お気に入りの登録に失敗しました: %w", err)
	}
	s.recorder.RecordFavoriteAdded(string(target.Kind), created)

	if created {
		slog.Info("お気に入りを登録しました",
			slog.Int64("user_id", userID),
			slog.String("target_type", string(target.Kind)),
			slog.Int64("target_id", target.ID),
			slog.Int64("favorite_id", fav.ID),
		)
	}

	return &AddResult{Favorite: fav, Created: created}, nil
}

// remove はお気に入り解除の共通処理。一致する行がない場合はNotFoundを返す。
func (s *Service) remove(ctx context.Context, userID int64, target model.FavoriteTarget) error {
	deleted, err := s.favoriteRepo.DeleteByUserAndTarget(ctx, userID, target)
	if err != nil {
		return fmt.Errorf("お気に入りの解除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewFavoriteNotFoundError(target)
	}

	s.recorder.RecordFavoriteRemoved(string(target.Kind))
	slog.Info("お気に入りを解除しました",
		slog.Int64("user_id", userID),
		slog.String("target_type", string(target.Kind)),
		slog.Int64("target_id", target.ID),
	)
	return nil
}

func (s *Service) ensureUser(ctx context.Context, userID int64) error {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return model.NewUserNotFoundError(userID)
	}
	return nil
}

// ensureTarget はお気に入り対象のエンティティが存在することを確認する。
func (s *Service) ensureTarget(ctx context.Context, target model.FavoriteTarget) error {
	switch target.Kind {
	case model.TargetCharacter:
		c, err := s.characterRepo.FindByID(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("キャラクターの取得に失敗しました: %w", err)
		}
		if c == nil {
			return model.NewCharacterNotFoundError(target.ID)
		}
	case model.TargetPlanet:
		p, err := s.planetRepo.FindByID(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("惑星の取得に失敗しました: %w", err)
		}
		if p == nil {
			return model.NewPlanetNotFoundError(target.ID)
		}
	default:
		return fmt.Errorf("unknown favorite target kind: %q", target.Kind)
	}
	return nil
}
