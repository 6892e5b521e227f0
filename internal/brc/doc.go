// Package brc computes the min, mean and max value per key of a large file of
// "key;value\n" records, where value has exactly one fractional digit.
//
// The input is split into byte ranges, one per worker. Each worker reads its
// range through a small fixed buffer into its own Table; the tables are
// merged once every worker has finished.
package brc
