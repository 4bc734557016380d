package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"mixtape/internal/models"
	"mixtape/internal/shared"
)

// UserRepository implements [models.Repository] for [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with generated ID and sequence
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	user.SetSequence(sequence)

	id := shared.GenerateID()
	user.SetID(id)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (id, sequence, username, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, user.Username(), user.Password(), user.CreatedAt(), user.UpdatedAt())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", shared.ErrUsernameTaken, user.Username())
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `
		SELECT id, sequence, username, password, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByUsername retrieves a user by their unique username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	query := `
		SELECT id, sequence, username, password, created_at, updated_at
		FROM users
		WHERE username = ?
	`

	return r.scanOne(r.db.QueryRow(query, username))
}

// Update modifies an existing user in the database
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	query := `
		UPDATE users
		SET username = ?, password = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, user.Username(), user.Password(), now, user.ID())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, user.ID())
	}

	return nil
}

// List retrieves all users ordered by sequence
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `
		SELECT id, sequence, username, password, created_at, updated_at
		FROM users
	`

	args := []any{}

	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " WHERE username = ?"
		args = append(args, username)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var (
			userID    string
			sequence  int
			username  string
			password  string
			createdAt time.Time
			updatedAt time.Time
		)

		if err := rows.Scan(&userID, &sequence, &username, &password, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		user := models.NewUser(sequence, username, password)
		user.SetID(userID)
		user.SetCreatedAt(createdAt)
		user.SetUpdatedAt(updatedAt)

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// scanOne scans a single [sql.Row] into a [models.User]
func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var (
		userID    string
		sequence  int
		username  string
		password  string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&userID, &sequence, &username, &password, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user := models.NewUser(sequence, username, password)
	user.SetID(userID)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)

	return user, nil
}
