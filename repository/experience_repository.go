package repository

import (
	"context"
	"fmt"

	"github.com/cmertnic/EXPBOT/database"
	"github.com/cmertnic/EXPBOT/models"
	"github.com/jackc/pgx/v5"
)

// ExperienceRepository implements the service.ExperienceRepository interface
type ExperienceRepository struct {
	q queryable
}

// NewExperienceRepository creates a new experience repository
func NewExperienceRepository(db *database.DB) *ExperienceRepository {
	return &ExperienceRepository{q: db.Pool}
}

// newExperienceRepositoryWithTx creates a new experience repository bound to a transaction
func newExperienceRepositoryWithTx(tx queryable) *ExperienceRepository {
	return &ExperienceRepository{q: tx}
}

// Add increments a user's experience, creating the row on first write.
// The upsert is a single statement, so concurrent adds interleave without
// lost updates. server_id always records the most recent writer.
func (r *ExperienceRepository) Add(ctx context.Context, userID, serverID, amount int64) error {
	query := `
		INSERT INTO user_experience (user_id, server_id, experience)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET experience = user_experience.experience + $3,
		    server_id = $2,
		    updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, userID, serverID, amount); err != nil {
		return fmt.Errorf("failed to add experience for user %d: %w", userID, err)
	}

	return nil
}

// Subtract decrements a user's experience. Returns the number of rows
// affected; zero means the user has no ledger row. No floor is enforced,
// the counter may go negative.
func (r *ExperienceRepository) Subtract(ctx context.Context, userID, serverID, amount int64) (int64, error) {
	query := `
		UPDATE user_experience
		SET experience = experience - $3,
		    server_id = $2,
		    updated_at = NOW()
		WHERE user_id = $1
	`

	result, err := r.q.Exec(ctx, query, userID, serverID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to subtract experience for user %d: %w", userID, err)
	}

	return result.RowsAffected(), nil
}

// Delete removes a user's ledger row and returns rows deleted (0 or 1)
func (r *ExperienceRepository) Delete(ctx context.Context, userID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM user_experience WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete experience for user %d: %w", userID, err)
	}

	return result.RowsAffected(), nil
}

// Total returns a user's experience, or 0 when no row exists
func (r *ExperienceRepository) Total(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT experience FROM user_experience WHERE user_id = $1`, userID,
	).Scan(&total)

	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get experience for user %d: %w", userID, err)
	}

	return total, nil
}

// ListByServer returns the (user, experience) pairs whose most recent write
// came from the given server, highest experience first.
func (r *ExperienceRepository) ListByServer(ctx context.Context, serverID int64) ([]*models.ExperienceEntry, error) {
	query := `
		SELECT user_id, experience
		FROM user_experience
		WHERE server_id = $1
		ORDER BY experience DESC
	`

	rows, err := r.q.Query(ctx, query, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experience for server %d: %w", serverID, err)
	}
	defer rows.Close()

	var entries []*models.ExperienceEntry
	for rows.Next() {
		var entry models.ExperienceEntry
		if err := rows.Scan(&entry.UserID, &entry.Experience); err != nil {
			return nil, fmt.Errorf("failed to scan experience entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate experience entries: %w", err)
	}

	return entries, nil
}

// DeleteByServer removes every row attributed to a server and returns the
// number of rows deleted
func (r *ExperienceRepository) DeleteByServer(ctx context.Context, serverID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM user_experience WHERE server_id = $1`, serverID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear experience for server %d: %w", serverID, err)
	}

	return result.RowsAffected(), nil
}
