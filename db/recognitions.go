package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

type PostgresRecognitionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for recognitions table
var recognitionsColumns = []string{
	"id",
	"nominator_employee_id",
	"recipient_employee_id",
	"recognition_type",
	"points",
	"message",
	"behavior_attributes",
	"source_platform",
	"source_channel_id",
	"status",
	"approval_required",
	"approval_url",
	"idempotency_key",
	"created_at",
}

// dbRecognition mirrors models.Recognition with a pq array for behaviors
type dbRecognition struct {
	ID                  string         `db:"id"`
	NominatorEmployeeID string         `db:"nominator_employee_id"`
	RecipientEmployeeID string         `db:"recipient_employee_id"`
	Kind                string         `db:"recognition_type"`
	Points              int            `db:"points"`
	Message             string         `db:"message"`
	BehaviorAttributes  pq.StringArray `db:"behavior_attributes"`
	SourcePlatform      string         `db:"source_platform"`
	SourceChannelID     string         `db:"source_channel_id"`
	Status              string         `db:"status"`
	ApprovalRequired    bool           `db:"approval_required"`
	ApprovalURL         string         `db:"approval_url"`
	IdempotencyKey      string         `db:"idempotency_key"`
	CreatedAt           time.Time      `db:"created_at"`
}

func (d *dbRecognition) toModel() *models.Recognition {
	return &models.Recognition{
		ID:                  d.ID,
		NominatorEmployeeID: d.NominatorEmployeeID,
		RecipientEmployeeID: d.RecipientEmployeeID,
		Kind:                models.RecognitionKind(d.Kind),
		Points:              d.Points,
		Message:             d.Message,
		BehaviorAttributes:  []string(d.BehaviorAttributes),
		SourcePlatform:      models.Platform(d.SourcePlatform),
		SourceChannelID:     d.SourceChannelID,
		Status:              models.RecognitionStatus(d.Status),
		ApprovalRequired:    d.ApprovalRequired,
		ApprovalURL:         d.ApprovalURL,
		IdempotencyKey:      d.IdempotencyKey,
		CreatedAt:           d.CreatedAt,
	}
}

func NewPostgresRecognitionsRepository(db *sqlx.DB, schema string) *PostgresRecognitionsRepository {
	return &PostgresRecognitionsRepository{db: db, schema: schema}
}

func (r *PostgresRecognitionsRepository) CreateRecognition(ctx context.Context, rec *models.Recognition) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.recognitions (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		r.schema, strings.Join(recognitionsColumns, ", "))

	if _, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.NominatorEmployeeID,
		rec.RecipientEmployeeID,
		rec.Kind,
		rec.Points,
		rec.Message,
		pq.StringArray(rec.BehaviorAttributes),
		rec.SourcePlatform,
		rec.SourceChannelID,
		rec.Status,
		rec.ApprovalRequired,
		rec.ApprovalURL,
		rec.IdempotencyKey,
		rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create recognition: %w", err)
	}

	return nil
}

func (r *PostgresRecognitionsRepository) GetRecognitionByID(
	ctx context.Context,
	id string,
) (*models.Recognition, error) {
	return r.getRecognitionBy(ctx, "id", id)
}

func (r *PostgresRecognitionsRepository) GetRecognitionByIdempotencyKey(
	ctx context.Context,
	key string,
) (*models.Recognition, error) {
	return r.getRecognitionBy(ctx, "idempotency_key", key)
}

func (r *PostgresRecognitionsRepository) getRecognitionBy(
	ctx context.Context,
	column, value string,
) (*models.Recognition, error) {
	columnsStr := strings.Join(recognitionsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.recognitions
		WHERE %s = $1`,
		columnsStr, r.schema, column)

	rec := &dbRecognition{}
	err := r.db.QueryRowxContext(ctx, query, value).StructScan(rec)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return nil, nil // Recognition not found
		}
		return nil, fmt.Errorf("failed to get recognition by %s: %w", column, err)
	}

	return rec.toModel(), nil
}
