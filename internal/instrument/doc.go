// Package instrument resolves file identifying tokens into canonical security
// identities, caching one identity per underlying for the lifetime of the
// resolver. The cache is owned by a single reader and never shared across
// files.
package instrument
