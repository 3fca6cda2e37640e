// Package query builds the store-level expressions used by the user engine:
// predicates, sparse $set updates, text search filters, pagination windows
// and aggregation pipelines. Every builder is a pure function of its
// arguments and returns bson ready to hand to a domain.Collection.
package query
