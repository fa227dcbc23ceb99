package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/holocron/internal/model"
)

// PostgresCharacterRepo はPostgreSQLを使用したキャラクターリポジトリ。
type PostgresCharacterRepo struct {
	db *sql.DB
}

// NewPostgresCharacterRepo はPostgresCharacterRepoを生成する。
func NewPostgresCharacterRepo(db *sql.DB) *PostgresCharacterRepo {
	return &PostgresCharacterRepo{db: db}
}

// FindByID は指定IDのキャラクターを取得する。見つからない場合はnilを返す。
func (r *PostgresCharacterRepo) FindByID(ctx context.Context, id int64) (*model.Character, error) {
	c := &model.Character{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, species, gender FROM characters WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Species, &c.Gender)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("キャラクターの取得に失敗しました: %w", err)
	}

	return c, nil
}

// List は全キャラクターをID昇順で返す。
func (r *PostgresCharacterRepo) List(ctx context.Context) ([]*model.Character, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, species, gender FROM characters ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("キャラクター一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var characters []*model.Character
	for rows.Next() {
		c := &model.Character{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Species, &c.Gender); err != nil {
			return nil, fmt.Errorf("キャラクター行の読み取りに失敗しました: %w", err)
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("キャラクター一覧の走査に失敗しました: %w", err)
	}
	return characters, nil
}

// Create はキャラクターを作成し、採番されたIDをcharacterに設定する。
func (r *PostgresCharacterRepo) Create(ctx context.Context, c *model.Character) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO characters (name, species, gender) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.Species, c.Gender,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("キャラクターの作成に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CharacterRepository = (*PostgresCharacterRepo)(nil)
