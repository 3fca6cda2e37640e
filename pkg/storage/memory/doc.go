// Package memory is an embedded, single-node document store implementing
// domain.Collection. It evaluates the bson subset the user engine emits
// (equality and comparison predicates, $or/$and, $text, $set updates,
// $match/$group/$count/$sort/$skip/$limit/$project pipelines) over
// documents held in memory.
//
// When a data directory is configured every mutation is appended to a
// write-ahead log before it is applied, and a background checkpointer
// periodically writes an lz4-compressed msgpack snapshot and truncates the
// log. Open recovers by loading the snapshot and replaying the log.
//
// Multi-document writes (UpdateMany, DeleteMany, BulkWrite) are applied one
// document at a time and are not atomic: a failure part way leaves earlier
// effects in place.
package memory
