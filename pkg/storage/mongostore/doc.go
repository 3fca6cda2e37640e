// Package mongostore backs domain.Collection with a MongoDB collection
// through the official Go driver.
//
// The adapter is a thin translation layer: filters, updates and pipelines
// are passed through unchanged, driver results are copied into the domain
// result types, and mongo.ErrNoDocuments becomes domain.ErrNotFound.
// Nothing is retried after the initial connection.
package mongostore
