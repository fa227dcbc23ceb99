package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/holocron/internal/model"
)

// PostgresPlanetRepo はPostgreSQLを使用した惑星リポジトリ。
type PostgresPlanetRepo struct {
	db *sql.DB
}

// NewPostgresPlanetRepo はPostgresPlanetRepoを生成する。
func NewPostgresPlanetRepo(db *sql.DB) *PostgresPlanetRepo {
	return &PostgresPlanetRepo{db: db}
}

// FindByID は指定IDの惑星を取得する。見つからない場合はnilを返す。
func (r *PostgresPlanetRepo) FindByID(ctx context.Context, id int64) (*model.Planet, error) {
	p := &model.Planet{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, size, climate, population FROM planets WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Size, &p.Climate, &p.Population)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("惑星の取得に失敗しました: %w", err)
	}

	return p, nil
}

// List は全惑星をID昇順で返す。
func (r *PostgresPlanetRepo) List(ctx context.Context) ([]*model.Planet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, size, climate, population FROM planets ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("惑星一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var planets []*model.Planet
	for rows.Next() {
		p := &model.Planet{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Size, &p.Climate, &p.Population); err != nil {
			return nil, fmt.Errorf("惑星行の読み取りに失敗しました: %w", err)
		}
		planets = append(planets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("惑星一覧の走査に失敗しました: %w", err)
	}
	return planets, nil
}

// Create は惑星を作成し、採番されたIDをplanetに設定する。
func (r *PostgresPlanetRepo) Create(ctx context.Context, p *model.Planet) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO planets (name, size, climate, population) VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Name, p.Size, p.Climate, p.Population,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("惑星の作成に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PlanetRepository = (*PostgresPlanetRepo)(nil)
