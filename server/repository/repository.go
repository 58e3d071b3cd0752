package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/ponyo877/roomchat/server/domain"
	"github.com/ponyo877/roomchat/server/usecase"
)

const driverName = "sqlite3_with_go_func"

// ErrNotFound and ErrAlreadyExists are joined with the matching domain error
// so callers can test either.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

var registerOnce sync.Once

func regex(re, s string) (bool, error) {
	return regexp.MatchString(re, s)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	banned        INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	room       TEXT NOT NULL,
	sender     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS events_room_created_at ON events (room, created_at);
`

// Open opens the SQLite database at path with a regexp() SQL function
// available and creates the schema when missing.
func Open(path string) (*sql.DB, error) {
	registerOnce.Do(func() {
		sql.Register(driverName,
			&sqlite3.SQLiteDriver{
				ConnectHook: func(conn *sqlite3.SQLiteConn) error {
					return conn.RegisterFunc("regexp", regex, true)
				},
			})
	})
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) usecase.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(username, passwordHash string) error {
	query := "INSERT INTO users (username, password_hash, banned, created_at) VALUES (?, ?, 0, ?)"
	if _, err := r.db.Exec(query, username, passwordHash, time.Now()); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("user '%s': %w", username, errors.Join(domain.ErrUserExists, ErrAlreadyExists))
		}
		return fmt.Errorf("failed to insert user '%s': %w", username, err)
	}
	return nil
}

func (r *Repository) GetUser(username string) (domain.User, error) {
	query := "SELECT id, username, password_hash, banned, created_at FROM users WHERE username = ?"
	var user domain.User
	if err := r.db.QueryRow(query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Banned, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("user '%s': %w", username, errors.Join(domain.ErrUserNotFound, ErrNotFound))
		}
		return domain.User{}, fmt.Errorf("error querying user '%s': %w", username, err)
	}
	return user, nil
}

func (r *Repository) UpdateBanned(username string, banned bool) error {
	query := "UPDATE users SET banned = ? WHERE username = ?"
	res, err := r.db.Exec(query, banned, username)
	if err != nil {
		return fmt.Errorf("failed to update user '%s': %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user '%s': %w", username, err)
	}
	if n == 0 {
		return fmt.Errorf("user '%s': %w", username, errors.Join(domain.ErrUserNotFound, ErrNotFound))
	}
	return nil
}

func (r *Repository) CreateEvent(room, sender string, kind domain.EventKind, content string) error {
	query := "INSERT INTO events (room, sender, kind, content, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.Exec(query, room, sender, string(kind), content, time.Now()); err != nil {
		return fmt.Errorf("failed to insert event for room '%s': %w", room, err)
	}
	return nil
}

// ListEvents returns the newest limit events of one kind in room, oldest
// first.
func (r *Repository) ListEvents(room string, kind domain.EventKind, limit int) ([]domain.Message, error) {
	query := "SELECT id, room, sender, kind, content, created_at FROM events WHERE room = ? AND kind = ? ORDER BY id DESC LIMIT ?"
	rows, err := r.db.Query(query, room, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for room '%s': %w", room, err)
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, fmt.Errorf("error iterating over events for room '%s': %w", room, err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ListEventsByQuery matches content with the regexp() SQL function. An empty
// room searches every room.
func (r *Repository) ListEventsByQuery(room, pattern string) ([]domain.Message, error) {
	query := "SELECT id, room, sender, kind, content, created_at FROM events WHERE (? = '' OR room = ?) AND content REGEXP ? ORDER BY id"
	rows, err := r.db.Query(query, room, room, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search in room '%s' for query '%s': %w", room, pattern, err)
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, fmt.Errorf("error iterating over search results for room '%s': %w", room, err)
	}
	return messages, nil
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	messages := []domain.Message{}
	var id int
	var room, sender, kind, content string
	var createdAt time.Time
	for rows.Next() {
		if err := rows.Scan(&id, &room, &sender, &kind, &content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		messages = append(messages, domain.NewMessage(id, room, sender, domain.EventKind(kind), content, createdAt))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
