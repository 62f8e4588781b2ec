package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the part of *pgxpool.Pool the repositories use.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool        *pgxpool.Pool
	tasks       *TaskRepo
	preferences *PreferenceRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		tasks:       NewTaskRepo(pool),
		preferences: NewPreferenceRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Tasks() *TaskRepo             { return s.tasks }
func (s *Store) Preferences() *PreferenceRepo { return s.preferences }

// Workspace binds the repositories to one workspace as a domain.Persistence.
func (s *Store) Workspace(name string) *WorkspaceStore {
	return &WorkspaceStore{name: name, tasks: s.tasks, preferences: s.preferences}
}

// NewWorkspaceStore binds fresh repositories over db to one workspace.
func NewWorkspaceStore(db DB, name string) *WorkspaceStore {
	return &WorkspaceStore{name: name, tasks: NewTaskRepo(db), preferences: NewPreferenceRepo(db)}
}
