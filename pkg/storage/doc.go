// Package storage manages the output directory of the scraper.
//
// It reserves artifact names that never overwrite an earlier run and writes
// artifacts atomically through a temporary file and a rename.
package storage
