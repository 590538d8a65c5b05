// Package store holds the in-memory TaskStore, the single owner of the
// ordered task sequence. Every exported method is safe for concurrent use;
// bulk writes (ApplyToAll, Publish) commit under one write lock so readers
// never observe a half-applied change.
package store
