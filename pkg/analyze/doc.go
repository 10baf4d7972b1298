// Package analyze runs the full per-file pipeline: stat, metadata
// extraction, capture-time estimation and GPS direction, for one file or a
// batch of files in parallel.
package analyze
