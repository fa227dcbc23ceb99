package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/holocron/internal/model"
)

// favoriteSelect はお気に入りと参照先の名前を取得する共通SELECT句。
// fromにはfavoritesテーブル（または同じ列を持つCTE）をfエイリアスで指定する。
const favoriteSelect = `
	SELECT f.id, f.user_id, f.character_id, f.planet_id, f.created_at,
	       COALESCE(c.name, p.name, '')
	FROM %s f
	LEFT JOIN characters c ON c.id = f.character_id
	LEFT JOIN planets p ON p.id = f.planet_id`

// PostgresFavoriteRepo はPostgreSQLを使用したお気に入りリポジトリ。
type PostgresFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresFavoriteRepo はPostgresFavoriteRepoを生成する。
func NewPostgresFavoriteRepo(db *sql.DB) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{db: db}
}

// targetColumn は対象種別に対応するfavoritesテーブルの列名を返す。
func targetColumn(kind model.TargetKind) (string, error) {
	switch kind {
	case model.TargetCharacter:
		return "character_id", nil
	case model.TargetPlanet:
		return "planet_id", nil
	default:
		return "", fmt.Errorf("unknown favorite target kind: %q", kind)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanFavorite は1行をmodel.Favoriteに変換する。
// character_id/planet_idのうち設定されている方からTargetを復元する。
func scanFavorite(s rowScanner) (*model.Favorite, error) {
	var (
		fav         model.Favorite
		characterID sql.NullInt64
		planetID    sql.NullInt64
	)
	if err := s.Scan(&fav.ID, &fav.UserID, &characterID, &planetID, &fav.CreatedAt, &fav.TargetName); err != nil {
		return nil, err
	}

	switch {
	case characterID.Valid && !planetID.Valid:
		fav.Target = model.CharacterTarget(characterID.Int64)
	case planetID.Valid && !characterID.Valid:
		fav.Target = model.PlanetTarget(planetID.Int64)
	default:
		return nil, fmt.Errorf("favorite %d must reference exactly one target", fav.ID)
	}
	return &fav, nil
}

// FindByUserAndTarget はユーザーIDと対象でお気に入りを検索する。見つからない場合はnilを返す。
func (r *PostgresFavoriteRepo) FindByUserAndTarget(ctx context.Context, userID int64, target model.FavoriteTarget) (*model.Favorite, error) {
	col, err := targetColumn(target.Kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(favoriteSelect, "favorites") +
		fmt.Sprintf(` WHERE f.user_id = $1 AND f.%s = $2`, col)

	fav, err := scanFavorite(r.db.QueryRowContext(ctx, query, userID, target.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("お気に入りの検索に失敗しました: %w", err)
	}
	return fav, nil
}

// Create はお気に入りを冪等に作成する。
// 部分ユニークインデックスに対するON CONFLICT DO NOTHINGで重複挿入を防ぎ、
// 競合した場合は既存行を読み直して返す。
func (r *PostgresFavoriteRepo) Create(ctx context.Context, userID int64, target model.FavoriteTarget) (*model.Favorite, bool, error) {
	col, err := targetColumn(target.Kind)
	if err != nil {
		return nil, false, err
	}

	query := fmt.Sprintf(`
		WITH f AS (
			INSERT INTO favorites (user_id, %[1]s) VALUES ($1, $2)
			ON CONFLICT (user_id, %[1]s) WHERE %[1]s IS NOT NULL DO NOTHING
			RETURNING id, user_id, character_id, planet_id, created_at
		)`, col) + fmt.Sprintf(favoriteSelect, "f")

	fav, err := scanFavorite(r.db.QueryRowContext(ctx, query, userID, target.ID))
	if err == nil {
		return fav, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("お気に入りの作成に失敗しました: %w", err)
	}

	// 同時に挿入された既存行を返す
	existing, err := r.FindByUserAndTarget(ctx, userID, target)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("お気に入りの作成が競合しましたが既存行が見つかりません: user=%d %s=%d", userID, target.Kind, target.ID)
	}
	return existing, false, nil
}

// DeleteByUserAndTarget はユーザーIDと対象に一致するお気に入りを削除する。
// 一致する行がなかった場合はfalseを返す。
func (r *PostgresFavoriteRepo) DeleteByUserAndTarget(ctx context.Context, userID int64, target model.FavoriteTarget) (bool, error) {
	col, err := targetColumn(target.Kind)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM favorites WHERE user_id = $1 AND %s = $2`, col),
		userID, target.ID,
	)
	if err != nil {
		return false, fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// ListByUserID はユーザーのお気に入り一覧を作成順で返す。
func (r *PostgresFavoriteRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(favoriteSelect, "favorites")+` WHERE f.user_id = $1 ORDER BY f.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var favs []*model.Favorite
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("お気に入り行の読み取りに失敗しました: %w", err)
		}
		favs = append(favs, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("お気に入り一覧の走査に失敗しました: %w", err)
	}
	return favs, nil
}

// ListByUserIDs は複数ユーザーのお気に入りを1回のクエリで取得し、ユーザーIDごとにまとめて返す。
func (r *PostgresFavoriteRepo) ListByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]*model.Favorite, error) {
	result := make(map[int64][]*model.Favorite, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(favoriteSelect, "favorites")+` WHERE f.user_id = ANY($1) ORDER BY f.user_id ASC, f.id ASC`,
		pq.Array(userIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("ユーザー別お気に入り一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("お気に入り行の読み取りに失敗しました: %w", err)
		}
		result[fav.UserID] = append(result[fav.UserID], fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ユーザー別お気に入り一覧の走査に失敗しました: %w", err)
	}
	return result, nil
}

// compile-time interface check
var _ FavoriteRepository = (*PostgresFavoriteRepo)(nil)
