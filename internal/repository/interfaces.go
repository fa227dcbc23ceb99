// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/holocron/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// List は全ユーザーをID昇順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// Create はユーザーを作成し、採番されたIDと登録日時をuserに設定する。
	// メールアドレスが重複している場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error
}

// CharacterRepository はキャラクターデータの永続化インターフェース。
type CharacterRepository interface {
	// FindByID は指定IDのキャラクターを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Character, error)

	// List は全キャラクターをID昇順で返す。
	List(ctx context.Context) ([]*model.Character, error)

	// Create はキャラクターを作成し、採番されたIDをcharacterに設定する。
	Create(ctx context.Context, character *model.Character) error
}

// PlanetRepository は惑星データの永続化インターフェース。
type PlanetRepository interface {
	// FindByID は指定IDの惑星を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Planet, error)

	// List は全惑星をID昇順で返す。
	List(ctx context.Context) ([]*model.Planet, error)

	// Create は惑星を作成し、採番されたIDをplanetに設定する。
	Create(ctx context.Context, planet *model.Planet) error
}

// FavoriteRepository はお気に入りデータの永続化インターフェース。
// 返却するFavoriteには参照先エンティティの名前（TargetName）が設定される。
type FavoriteRepository interface {
	// FindByUserAndTarget はユーザーIDと対象でお気に入りを検索する。見つからない場合はnilを返す。
	FindByUserAndTarget(ctx context.Context, userID int64, target model.FavoriteTarget) (*model.Favorite, error)

	// Create はお気に入りを冪等に作成する。
	// 同一(user, target)の行が既に存在する場合は挿入せず既存行を返し、createdはfalseになる。
	Create(ctx context.Context, userID int64, target model.FavoriteTarget) (fav *model.Favorite, created bool, err error)

	// DeleteByUserAndTarget はユーザーIDと対象に一致するお気に入りを削除する。
	// 一致する行がなかった場合はfalseを返す。
	DeleteByUserAndTarget(ctx context.Context, userID int64, target model.FavoriteTarget) (bool, error)

	// ListByUserID はユーザーのお気に入り一覧を作成順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Favorite, error)

	// ListByUserIDs は複数ユーザーのお気に入りを1回のクエリで取得し、ユーザーIDごとにまとめて返す。
	ListByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]*model.Favorite, error)
}
