package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// sqliteTimeLayout is fixed width so created_at sorts lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// sqlDialect holds the statements that differ between SQL drivers.
type sqlDialect struct {
	insert         string
	selectAll      string
	selectByID     string
	selectByStatus string
	update         string
	delete         string
	count          string
	timestamp      func(time.Time) any
}

var sqliteDialect = sqlDialect{
	insert:         `INSERT INTO tasks (id, title, status, created_at) VALUES (?, ?, ?, ?)`,
	selectAll:      `SELECT id, title, status FROM tasks ORDER BY created_at, id`,
	selectByID:     `SELECT id, title, status FROM tasks WHERE id = ?`,
	selectByStatus: `SELECT id, title, status FROM tasks WHERE status = ? ORDER BY created_at, id`,
	update:         `UPDATE tasks SET title = ?, status = ? WHERE id = ?`,
	delete:         `DELETE FROM tasks WHERE id = ?`,
	count:          `SELECT COUNT(*) FROM tasks`,
	timestamp: func(t time.Time) any {
		return t.UTC().Format(sqliteTimeLayout)
	},
}

var postgresDialect = sqlDialect{
	insert:         `INSERT INTO tasks (id, title, status, created_at) VALUES ($1, $2, $3, $4)`,
	selectAll:      `SELECT id, title, status FROM tasks ORDER BY created_at, id`,
	selectByID:     `SELECT id, title, status FROM tasks WHERE id = $1`,
	selectByStatus: `SELECT id, title, status FROM tasks WHERE status = $1 ORDER BY created_at, id`,
	update:         `UPDATE tasks SET title = $1, status = $2 WHERE id = $3`,
	delete:         `DELETE FROM tasks WHERE id = $1`,
	count:          `SELECT COUNT(*) FROM tasks`,
	timestamp: func(t time.Time) any {
		return t.UTC()
	},
}

// SQLTaskStore implements task.Store on a SQL database.Connection.
type SQLTaskStore struct {
	conn    database.Connection
	dialect sqlDialect
}

// NewSQLiteTaskStore creates a task store on a SQLite connection.
func NewSQLiteTaskStore(conn database.Connection) *SQLTaskStore {
	return &SQLTaskStore{conn: conn, dialect: sqliteDialect}
}

// NewPostgresTaskStore creates a task store on a PostgreSQL connection.
func NewPostgresTaskStore(conn database.Connection) *SQLTaskStore {
	return &SQLTaskStore{conn: conn, dialect: postgresDialect}
}

// NewSQLTaskStore picks the dialect from the connection's driver.
func NewSQLTaskStore(conn database.Connection) (*SQLTaskStore, error) {
	switch conn.Driver() {
	case database.DriverSQLite:
		return NewSQLiteTaskStore(conn), nil
	case database.DriverPostgres:
		return NewPostgresTaskStore(conn), nil
	default:
		return nil, fmt.Errorf("unsupported SQL driver: %s", conn.Driver())
	}
}

func (s *SQLTaskStore) FindAll(ctx context.Context) ([]*task.Task, error) {
	return s.query(ctx, s.dialect.selectAll)
}

func (s *SQLTaskStore) FindByStatus(ctx context.Context, status string) ([]*task.Task, error) {
	return s.query(ctx, s.dialect.selectByStatus, status)
}

func (s *SQLTaskStore) query(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*task.Task, 0)
	for rows.Next() {
		t := &task.Task{}
		if err := rows.Scan(&t.ID, &t.Title, &t.Status); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t := &task.Task{}
	err := s.conn.QueryRow(ctx, s.dialect.selectByID, id).Scan(&t.ID, &t.Title, &t.Status)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return t, nil
}

func (s *SQLTaskStore) Insert(ctx context.Context, t *task.Task) error {
	id := task.NewID()
	if _, err := s.conn.Exec(ctx, s.dialect.insert, id, t.Title, t.Status, s.dialect.timestamp(time.Now())); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	t.ID = id
	return nil
}

func (s *SQLTaskStore) Replace(ctx context.Context, id uuid.UUID, t *task.Task) error {
	result, err := s.conn.Exec(ctx, s.dialect.update, t.Title, t.Status, id)
	if err != nil {
		return fmt.Errorf("failed to replace task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to replace task: %w", err)
	}
	if affected == 0 {
		return task.ErrNotFound
	}
	return nil
}

func (s *SQLTaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := s.conn.Exec(ctx, s.dialect.delete, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return affected > 0, nil
}

func (s *SQLTaskStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.conn.QueryRow(ctx, s.dialect.count).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return int(n), nil
}

func (s *SQLTaskStore) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

var _ task.Store = (*SQLTaskStore)(nil)
