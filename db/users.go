package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

type PostgresUsersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for rewards_users table
var usersColumns = []string{
	"employee_id",
	"email",
	"name",
	"platform",
	"platform_user_id",
}

func NewPostgresUsersRepository(db *sqlx.DB, schema string) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db, schema: schema}
}

func (r *PostgresUsersRepository) GetUserByEmail(
	ctx context.Context,
	email string,
) (*models.RewardsUser, error) {
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.rewards_users
		WHERE email = $1`,
		columnsStr, r.schema)

	user := &models.RewardsUser{}
	err := r.db.QueryRowxContext(ctx, query, email).StructScan(user)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *PostgresUsersRepository) GetUserByPlatformID(
	ctx context.Context,
	platform models.Platform,
	platformUserID string,
) (*models.RewardsUser, error) {
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.rewards_users
		WHERE platform = $1 AND platform_user_id = $2`,
		columnsStr, r.schema)

	user := &models.RewardsUser{}
	err := r.db.QueryRowxContext(ctx, query, platform, platformUserID).StructScan(user)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by platform id: %w", err)
	}

	return user, nil
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *models.RewardsUser) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.rewards_users (employee_id, email, name, platform, platform_user_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`,
		r.schema)

	if _, err := r.db.ExecContext(
		ctx,
		query,
		user.EmployeeID,
		user.Email,
		user.Name,
		user.Platform,
		user.PlatformUserID,
	); err != nil {
		return fmt.Errorf("failed to create rewards user: %w", err)
	}

	return nil
}
