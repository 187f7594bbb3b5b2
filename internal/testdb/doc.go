//go:build integration

// Package testdb provides helpers for tests that need a real PostgreSQL
// database.
//
// Tests run inside a transaction that is rolled back when the test ends, so
// they can use t.Parallel() and never leave data behind:
//
//	func TestTaskStore(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresTaskStore(tx, time.UTC)
//	        // ...
//	    })
//	}
//
// The database URL is read from DATABASE_URL (or TASKBOT_TEST_DB_URL). When
// neither is set the test is skipped. The schema is migrated once per test
// binary with the same embedded migrations the service uses.
package testdb
