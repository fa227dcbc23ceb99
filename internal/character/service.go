// Package character はキャラクター管理のドメインロジックを提供する。
package character

import (
	"context"
	"fmt"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/repository"
	"github.com/hitoshi/holocron/internal/validation"
)

// CreateParams はキャラクター作成の入力。すべての項目が必須。
type CreateParams struct {
	Name    string `json:"name" validate:"required,max=120"`
	Species string `json:"species" validate:"required,max=120"`
	Gender  string `json:"gender" validate:"required,max=120"`
}

// Service はキャラクターの一覧・取得・作成を提供するサービス層。
type Service struct {
	repo repository.CharacterRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.CharacterRepository) *Service {
	return &Service{repo: repo}
}

// ListCharacters は全キャラクターを返す。
func (s *Service) ListCharacters(ctx context.Context) ([]*model.Character, error) {
	characters, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("キャラクター一覧の取得に失敗しました: %w", err)
	}
	return characters, nil
}

// GetCharacter は指定IDのキャラクターを返す。見つからない場合はNotFoundのAPIErrorを返す。
func (s *Service) GetCharacter(ctx context.Context, id int64) (*model.Character, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("キャラクターの取得に失敗しました: %w", err)
	}
	if c == nil {
		return nil, model.NewCharacterNotFoundError(id)
	}
	return c, nil
}

// CreateCharacter はキャラクターを作成する。必須項目が欠けている場合はValidationErrorを返す。
func (s *Service) CreateCharacter(ctx context.Context, params CreateParams) (*model.Character, error) {
	if err := validation.ValidateStruct(params); err != nil {
		return nil, err
	}

	c := &model.Character{
		Name:    params.Name,
		Species: params.Species,
		Gender:  params.Gender,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("キャラクターの作成に失敗しました: %w", err)
	}
	return c, nil
}
