package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/holocron/internal/model"
)

// ErrDuplicateEmail はメールアドレスのユニーク制約違反を表す。
var ErrDuplicateEmail = errors.New("email already exists")

// pqUniqueViolation はPostgreSQLのunique_violationエラーコード。
const pqUniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password, is_active, registration_date, name, last_name
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.Password, &user.IsActive, &user.RegistrationDate, &user.Name, &user.LastName)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// List は全ユーザーをID昇順で返す。
func (r *PostgresUserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, password, is_active, registration_date, name, last_name
		 FROM users ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.Password, &user.IsActive, &user.RegistrationDate, &user.Name, &user.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, nil
}

// Create はユーザーを作成し、採番されたIDと登録日時をuserに設定する。
// registration_dateが未設定の場合はDB側の現在時刻を使用する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	var regDate any
	if !user.RegistrationDate.IsZero() {
		regDate = user.RegistrationDate
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password, is_active, registration_date, name, last_name)
		 VALUES ($1, $2, $3, COALESCE($4, NOW()), $5, $6)
		 RETURNING id, registration_date`,
		user.Email, user.Password, user.IsActive, regDate, user.Name, user.LastName,
	).Scan(&user.ID, &user.RegistrationDate)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
