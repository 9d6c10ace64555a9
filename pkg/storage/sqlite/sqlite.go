package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/kasuboski/snatcher/pkg/storage"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const timestampFormat = "2006-01-02 15:04:05"

var _ storage.Storage = (*SQLite)(nil)

type SQLite struct {
	db *sql.DB
	mu *sync.Mutex
}

// New opens the sqlite database at filePath. Foreign keys are enforced so releases
// are removed together with their media.
func New(ctx context.Context, filePath string) (storage.Storage, error) {
	log := logger.FromCtx(ctx)

	db, err := sql.Open("sqlite3", dsn(filePath))
	if err != nil {
		return nil, err
	}

	// a single connection serializes writers and keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	log.Debugw("opened sqlite database", "path", filePath)

	return &SQLite{
		db: db,
		mu: new(sync.Mutex),
	}, nil
}

func dsn(filePath string) string {
	sep := "?"
	if strings.Contains(filePath, "?") {
		sep = "&"
	}

	return filePath + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// RunMigrations applies every pending schema migration
func (s *SQLite) RunMigrations(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := runMigrations(s.db); err != nil {
		log.Error("failed to run migrations", zap.Error(err))
		return err
	}

	return nil
}

// Close closes the underlying database
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) handleInsert(ctx context.Context, stmt sqlite.InsertStatement) (sql.Result, error) {
	return s.handleStatement(ctx, stmt)
}

func (s *SQLite) handleDelete(ctx context.Context, stmt sqlite.DeleteStatement) (sql.Result, error) {
	return s.handleStatement(ctx, stmt)
}

func (s *SQLite) handleStatement(ctx context.Context, stmt sqlite.Statement) (sql.Result, error) {
	log := logger.FromCtx(ctx)
	var result sql.Result

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Debug("failed to init transaction", zap.Error(err))
		return result, err
	}

	result, err = stmt.ExecContext(ctx, tx)
	if err != nil {
		log.Debug("failed to execute statement", zap.String("query", stmt.DebugSql()), zap.Error(err))
		tx.Rollback()
		return result, err
	}

	return result, tx.Commit()
}

// notFound maps an empty query result to storage.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, qrm.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func timestamp(t time.Time) sqlite.TimestampExpression {
	return sqlite.TimestampExp(sqlite.String(t.UTC().Format(timestampFormat)))
}
