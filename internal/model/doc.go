// Package model defines shared data types used across the tick-data platform.
//
// Conventions:
//   - Prices, sizes and strikes: decimal.Decimal (never float64)
//   - Timestamps: time.Time carrying the feed's session date plus the row's
//     intraday time of day
//   - Identity: *Security pointers; one underlying Security is shared by all
//     of its contracts within a single file session
package model
