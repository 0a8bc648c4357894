package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/quizflow/store"
)

func (d *DB) CreateAttempt(ctx context.Context, create *store.Attempt) (*store.Attempt, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	stmt := `
		INSERT INTO attempt (user_id, question_id, user_answer, is_correct, time_taken_seconds, explanation, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UserID,
		create.QuestionID,
		create.UserAnswer,
		create.IsCorrect,
		create.TimeTakenSeconds,
		create.Explanation,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create attempt")
	}
	return create, nil
}

func (d *DB) ListAttempts(ctx context.Context, find *store.FindAttempt) ([]*store.Attempt, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.UserID != nil {
		where, args = append(where, "a.user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}

	query := `
		SELECT
			a.id, a.user_id, a.question_id, a.user_answer, a.is_correct,
			a.time_taken_seconds, a.explanation, a.created_ts,
			q.topic, q.difficulty, q.text
		FROM attempt a
		INNER JOIN question q ON a.question_id = q.id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY a.created_ts DESC, a.id DESC
	`
	if find.Limit != nil {
		args = append(args, *find.Limit)
		query += ` LIMIT ` + placeholder(len(args))
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list attempts")
	}
	defer rows.Close()

	list := []*store.Attempt{}
	for rows.Next() {
		var attempt store.Attempt
		var difficulty string
		if err := rows.Scan(
			&attempt.ID,
			&attempt.UserID,
			&attempt.QuestionID,
			&attempt.UserAnswer,
			&attempt.IsCorrect,
			&attempt.TimeTakenSeconds,
			&attempt.Explanation,
			&attempt.CreatedTs,
			&attempt.Topic,
			&difficulty,
			&attempt.Question,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan attempt")
		}
		attempt.Difficulty = store.Difficulty(difficulty)
		list = append(list, &attempt)
	}
	return list, rows.Err()
}

func (d *DB) ListTopicMastery(ctx context.Context, userID int32) ([]*store.TopicMastery, error) {
	query := `
		SELECT q.topic, COUNT(a.id), COUNT(a.id) FILTER (WHERE a.is_correct)
		FROM attempt a
		INNER JOIN question q ON a.question_id = q.id
		WHERE a.user_id = $1
		GROUP BY q.topic
		ORDER BY q.topic
	`
	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list topic mastery")
	}
	defer rows.Close()

	list := []*store.TopicMastery{}
	for rows.Next() {
		var mastery store.TopicMastery
		if err := rows.Scan(&mastery.Topic, &mastery.Total, &mastery.Correct); err != nil {
			return nil, errors.Wrap(err, "failed to scan topic mastery")
		}
		list = append(list, &mastery)
	}
	return list, rows.Err()
}
