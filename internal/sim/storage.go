package sim

import (
	"fmt"
	"os"

	"partnersim/internal/infra/persistence/memory"
	"partnersim/internal/infra/persistence/postgres"
	"partnersim/internal/infra/persistence/sqlite"
	"partnersim/pkg/domain"
)

// StorageDriver identifies a concrete run-archive implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a run-archive backend using environment
// variables. Defaults to sqlite when unset.
//
//	PARTNERSIM_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	PARTNERSIM_SQLITE_PATH: path to sqlite file (default ./partnersim.db)
//	PARTNERSIM_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore(engine *domain.ArchiveRulesEngine) (domain.PersistentStore, error) {
	driver := os.Getenv("PARTNERSIM_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		path := os.Getenv("PARTNERSIM_SQLITE_PATH")
		return sqlite.NewStore(path, engine)
	case StoragePostgres:
		dsn := os.Getenv("PARTNERSIM_POSTGRES_DSN")
		return postgres.NewStore(dsn, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
