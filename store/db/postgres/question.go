package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/quizflow/store"
)

func (d *DB) CreateQuestion(ctx context.Context, create *store.Question) (*store.Question, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	stmt := `
		INSERT INTO question (topic, difficulty, text, answer, created_ts)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Topic,
		string(create.Difficulty),
		create.Text,
		create.Answer,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create question")
	}
	return create, nil
}

func (d *DB) ListQuestions(ctx context.Context, find *store.FindQuestion) ([]*store.Question, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.Difficulty != nil {
		where, args = append(where, "difficulty = "+placeholder(len(args)+1)), append(args, string(*find.Difficulty))
	}

	query := `
		SELECT id, topic, difficulty, text, answer, created_ts
		FROM question
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list questions")
	}
	defer rows.Close()

	list := []*store.Question{}
	for rows.Next() {
		var question store.Question
		var difficulty string
		if err := rows.Scan(
			&question.ID,
			&question.Topic,
			&difficulty,
			&question.Text,
			&question.Answer,
			&question.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan question")
		}
		question.Difficulty = store.Difficulty(difficulty)
		list = append(list, &question)
	}
	return list, rows.Err()
}

func (d *DB) DeleteQuestion(ctx context.Context, delete *store.DeleteQuestion) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM question WHERE id = $1`, delete.ID)
	if err != nil {
		return errors.Wrap(err, "failed to delete question")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.Errorf("question %d not found", delete.ID)
	}
	return nil
}
