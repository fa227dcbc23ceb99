// Package planet は惑星管理のドメインロジックを提供する。
package planet

import (
	"context"
	"fmt"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/repository"
	"github.com/hitoshi/holocron/internal/validation"
)

// CreateParams は惑星作成の入力。すべての項目が必須。
// SizeとPopulationは0を有効な値として扱うため、未指定と区別できるようポインタで受け取る。
type CreateParams struct {
	Name       string `json:"name" validate:"required,max=120"`
	Size       *int64 `json:"size" validate:"required"`
	Climate    string `json:"climate" validate:"required,max=120"`
	Population *int64 `json:"population" validate:"required"`
}

// Service は惑星の一覧・取得・作成を提供するサービス層。
type Service struct {
	repo repository.PlanetRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.PlanetRepository) *Service {
	return &Service{repo: repo}
}

// ListPlanets は全惑星を返す。
func (s *Service) ListPlanets(ctx context.Context) ([]*model.Planet, error) {
	planets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("惑星一覧の取得に失敗しました: %w", err)
	}
	return planets, nil
}

// GetPlanet は指定IDの惑星を返す。見つからない場合はNotFoundのAPIErrorを返す。
func (s *Service) GetPlanet(ctx context.Context, id int64) (*model.Planet, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("惑星の取得に失敗しました: %w", err)
	}
	if p == nil {
		return nil, model.NewPlanetNotFoundError(id)
	}
	return p, nil
}

// CreatePlanet は惑星を作成する。必須項目が欠けている場合はValidationErrorを返す。
func (s *Service) CreatePlanet(ctx context.Context, params CreateParams) (*model.Planet, error) {
	if err := validation.ValidateStruct(params); err != nil {
		return nil, err
	}

	p := &model.Planet{
		Name:       params.Name,
		Size:       *params.Size,
		Climate:    params.Climate,
		Population: *params.Population,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("惑星の作成に失敗しました: %w", err)
	}
	return p, nil
}
