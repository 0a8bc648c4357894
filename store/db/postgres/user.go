package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/quizflow/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	if create.Skill == 0 {
		create.Skill = 0.5
	}

	stmt := `
		INSERT INTO "user" (username, skill, drift_detected, created_ts)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Username,
		create.Skill,
		create.DriftDetected,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return create, nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.Username != nil {
		where, args = append(where, "username = "+placeholder(len(args)+1)), append(args, *find.Username)
	}

	query := `
		SELECT id, username, skill, drift_detected, created_ts
		FROM "user"
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	defer rows.Close()

	list := []*store.User{}
	for rows.Next() {
		var user store.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Skill, &user.DriftDetected, &user.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan user")
		}
		list = append(list, &user)
	}
	return list, rows.Err()
}

func (d *DB) UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.User, error) {
	set, args := []string{}, []any{}
	if update.Skill != nil {
		set, args = append(set, "skill = "+placeholder(len(args)+1)), append(args, *update.Skill)
	}
	if update.DriftDetected != nil {
		set, args = append(set, "drift_detected = "+placeholder(len(args)+1)), append(args, *update.DriftDetected)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `
		UPDATE "user" SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, username, skill, drift_detected, created_ts
	`
	var user store.User
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&user.ID, &user.Username, &user.Skill, &user.DriftDetected, &user.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update user")
	}
	return &user, nil
}
