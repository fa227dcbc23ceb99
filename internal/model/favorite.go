// Package model はドメインモデルを定義する。
package model

import "time"

// TargetKind はお気に入り対象の種別を表す。
type TargetKind string

const (
	// TargetCharacter はキャラクターを対象とするお気に入り。
	TargetCharacter TargetKind = "character"
	// TargetPlanet は惑星を対象とするお気に入り。
	TargetPlanet TargetKind = "planet"
)

// Valid は種別が既知の値かどうかを返す。
func (k TargetKind) Valid() bool {
	return k == TargetCharacter || k == TargetPlanet
}

// FavoriteTarget はお気に入りの対象（キャラクターまたは惑星のどちらか一方）を表す。
// favoritesテーブルのcharacter_id/planet_idのうち、ちょうど1つが設定された状態に対応する。
type FavoriteTarget struct {
	Kind TargetKind
	ID   int64
}

// CharacterTarget はキャラクターを対象とするFavoriteTargetを返す。
func CharacterTarget(id int64) FavoriteTarget {
	return FavoriteTarget{Kind: TargetCharacter, ID: id}
}

// PlanetTarget は惑星を対象とするFavoriteTargetを返す。
func PlanetTarget(id int64) FavoriteTarget {
	return FavoriteTarget{Kind: TargetPlanet, ID: id}
}

// Favorite はユーザーがキャラクターまたは惑星をお気に入り登録したことを表す。
// TargetNameは参照先エンティティの名前で、JOINして取得される。
type Favorite struct {
	ID         int64
	UserID     int64
	Target     FavoriteTarget
	TargetName string
	CreatedAt  time.Time
}
