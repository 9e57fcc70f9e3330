// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database.
//
// Tests using it should carry the integration build tag and skip when no
// database is configured:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		// exercise stores bound to tx
//	})
//
// The schema is migrated once per process with the embedded migrations, and
// every WithTx call is rolled back so tests stay isolated.
package testdb
