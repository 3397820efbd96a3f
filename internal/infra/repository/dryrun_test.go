package repository

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// 発行されたSQLと引数
type capturedSQL struct {
	SQL  string
	Vars []any
}

type sqlRecorder struct {
	mu    sync.Mutex
	stmts []capturedSQL
}

func (r *sqlRecorder) record(db *gorm.DB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, capturedSQL{
		SQL:  db.Statement.SQL.String(),
		Vars: append([]any(nil), db.Statement.Vars...),
	})
}

// substr を含む最初の文
func (r *sqlRecorder) find(t *testing.T, substr string) capturedSQL {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stmts {
		if strings.Contains(s.SQL, substr) {
			return s
		}
	}
	t.Fatalf("no statement containing %q in %v", substr, r.stmts)
	return capturedSQL{}
}

func (r *sqlRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stmts)
}

// DBに繋がずにSQLだけ組み立てる
func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=dryrun dbname=dryrun sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	rec := &sqlRecorder{}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record_query", rec.record))
	require.NoError(t, db.Callback().Row().After("gorm:row").Register("test:record_row", rec.record))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:record_update", rec.record))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:record_create", rec.record))
	return db, rec
}
