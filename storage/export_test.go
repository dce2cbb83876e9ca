package storage

import "github.com/jackc/pgx/v5/pgxpool"

// GetPool exposes the connection pool so tests can seed and inspect
// rows directly.
func (pgr *PostgresRepo) GetPool() *pgxpool.Pool {
	return pgr.pool
}
