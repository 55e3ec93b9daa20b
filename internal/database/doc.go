// Package database builds the pgx connection pool for persisted ticks.
package database
