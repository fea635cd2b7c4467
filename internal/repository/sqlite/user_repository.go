package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

var userColumns = []string{"id", "username", "email", "password_hash", "role", "created_at"}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }, u *models.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
}

func (r *userRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	query, args, err := sqlBuilder.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, args...), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found: %v", where)
			return nil, nil
		}
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username})
}

func (r *userRepository) Insert(ctx context.Context, user models.User) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: username=%s, role=%s", user.Username, user.Role)

	query, args, err := sqlBuilder.Insert("users").
		Columns("username", "email", "password_hash", "role", "created_at").
		Values(user.Username, user.Email, user.PasswordHash, user.Role, dbTime(user.CreatedAt)).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert user: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *userRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating role: user_id=%d, role=%s", id, role)

	n, err := exec(ctx, r.db, sqlBuilder.Update("users").Set("role", role).Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to update role: %v", err)
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the user's cards, decks and sessions together with the user.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user: id=%d", id)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE user_id = ? OR deck_id IN (SELECT id FROM decks WHERE user_id = ?)`, id, id); err != nil {
			log.Error("failed to delete user cards: %v", err)
			return err
		}
		for _, table := range []string{"decks", "study_sessions"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ?`, id); err != nil {
				log.Error("failed to delete user %s: %v", table, err)
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			log.Error("failed to delete user: %v", err)
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

func (r *userRepository) ListWithDeckCounts(ctx context.Context) ([]models.UserWithDeckCount, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	query, args, err := sqlBuilder.Select(
		"u.id", "u.username", "u.email", "u.password_hash", "u.role", "u.created_at",
		"(SELECT COUNT(*) FROM decks d WHERE d.user_id = u.id)",
	).From("users u").OrderBy("u.created_at DESC", "u.id DESC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := []models.UserWithDeckCount{}
	for rows.Next() {
		var u models.UserWithDeckCount
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeckCount); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	log.Debug("found %d users", len(users))
	return users, rows.Err()
}

func (r *userRepository) Recent(ctx context.Context, limit int) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	if limit <= 0 {
		limit = 5
	}
	query, args, err := sqlBuilder.Select(userColumns...).From("users").
		OrderBy("created_at DESC", "id DESC").Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list recent users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
