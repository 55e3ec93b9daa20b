// Package refdata loads the static option contract reference table that maps
// a contract code to its underlying, right, strike and expiry.
//
// The table is a delimited file with fixed column positions. Loading fails if
// the file is unreadable; malformed rows are skipped, not fatal. Row order is
// significant only in that the first matching row wins a lookup.
package refdata
