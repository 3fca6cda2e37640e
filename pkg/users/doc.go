// Package users is the query and mutation engine for user records.
//
// A Service translates typed requests into store-level filters, updates and
// aggregation pipelines (built by package query), issues them against a
// domain.Collection and normalizes what comes back into domain types. It
// holds no state between calls beyond the injected collection handle, and
// it never retries: store failures surface as *domain.StoreError with the
// backend error untouched underneath.
//
// Input checks run before the store is touched. A replace without an
// identifier fails with domain.ErrMissingIdentifier, an update with no
// fields fails with domain.ErrEmptyUpdate, and malformed records fail with
// *domain.ValidationError.
package users
