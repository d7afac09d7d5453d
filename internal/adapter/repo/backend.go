// Package repo picks the persistence backend for the binaries: postgres when a DSN is set,
// sqlite when a file path is set, memory otherwise.
package repo

import (
	"fmt"

	gormrepo "forager/internal/adapter/repo/gorm"
	memrepo "forager/internal/adapter/repo/memory"
	sqliterepo "forager/internal/adapter/repo/sqlite"
	"forager/internal/app/ports"
	"forager/internal/config"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

type Set struct {
	Backend     string
	Snapshots   ports.SnapshotRepository
	Events      ports.EventRepository
	Sessions    ports.GameSessionRepository
	Credentials ports.PlayerCredentialRepository
	TxManager   ports.TxManager

	close func() error
}

func (s Set) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func Open(cfg config.Config) (Set, error) {
	switch {
	case cfg.DBDSN != "":
		db, err := gormrepo.OpenPostgres(cfg.DBDSN)
		if err != nil {
			return Set{}, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return Set{}, fmt.Errorf("open postgres: %w", err)
		}
		return Set{
			Backend:     BackendPostgres,
			Snapshots:   gormrepo.NewSnapshotRepo(db),
			Events:      gormrepo.NewEventRepo(db),
			Sessions:    gormrepo.NewGameSessionRepo(db),
			Credentials: gormrepo.NewPlayerCredentialRepo(db),
			TxManager:   gormrepo.NewTxManager(db),
			close:       sqlDB.Close,
		}, nil
	case cfg.SQLitePath != "":
		db, err := sqliterepo.Open(cfg.SQLitePath)
		if err != nil {
			return Set{}, fmt.Errorf("open sqlite: %w", err)
		}
		return Set{
			Backend:     BackendSQLite,
			Snapshots:   sqliterepo.NewSnapshotRepo(db),
			Events:      sqliterepo.NewEventRepo(db),
			Sessions:    sqliterepo.NewGameSessionRepo(db),
			Credentials: sqliterepo.NewPlayerCredentialRepo(db),
			TxManager:   sqliterepo.NewTxManager(db),
			close:       db.Close,
		}, nil
	default:
		store := memrepo.NewStore()
		return Set{
			Backend:     BackendMemory,
			Snapshots:   memrepo.NewSnapshotRepo(store),
			Events:      memrepo.NewEventRepo(store),
			Sessions:    memrepo.NewGameSessionRepo(store),
			Credentials: memrepo.NewPlayerCredentialRepo(store),
			TxManager:   memrepo.NewTxManager(store),
		}, nil
	}
}
