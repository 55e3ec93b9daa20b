// Package schema detects the column layout of a tick file from its header row.
//
// Detection is a pure function of the header tokens: each recognized field
// name resolves to the position of its first exact (case-sensitive) match, or
// -1 when absent. A file without a usable header yields a Map that rejects
// every row, which is the intended outcome rather than an open error.
package schema
