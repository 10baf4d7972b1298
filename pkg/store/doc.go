// Package store keeps a history of analysis runs in an embedded SQLite
// database. Positions are stored as EWKB points so the history can be
// read by any tool that understands PostGIS-style geometry.
package store
