// Package catalog stores isomorphism classes keyed by canonical form.
//
// A record describes one isomorphism class: its canonical graph6 (or
// digraph6) string, basic counts, and the group data computed when the
// class was first seen. Because the key is derived from the canonical
// form, any two isomorphic graphs resolve to the same record, so the
// catalog deduplicates graph streams into classes.
//
// Backends:
//   - memory: in-process map for tests and short-lived runs
//   - file: one JSON file per record under a directory
//   - redis: shared catalog for multi-process deployments
//   - mongo: durable catalog with queryable records
//   - null: discards everything
//
// All backends implement [Store]; pick one with [Open].
package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no record exists for a key.
	ErrNotFound = errors.New("record not found")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)

// Record is one isomorphism class.
type Record struct {
	// ID is a fresh UUID assigned when the record is first stored.
	ID string `json:"id" bson:"id"`

	// Key is the SHA-256 of the canonical encoding; the catalog key.
	Key string `json:"key" bson:"key"`

	// Canonical is the canonical graph6/digraph6 string of the class.
	Canonical string `json:"canonical" bson:"canonical"`

	// N and Edges are the vertex and edge counts.
	N     int `json:"n" bson:"n"`
	Edges int `json:"edges" bson:"edges"`

	// GroupOrder is the automorphism group order in decimal, exact when
	// it was computed with Schreier-Sims.
	GroupOrder string `json:"group_order,omitempty" bson:"group_order,omitempty"`

	// Orbits is the number of vertex orbits.
	Orbits int `json:"orbits,omitempty" bson:"orbits,omitempty"`

	// AddedAt is the time the record was first stored.
	AddedAt time.Time `json:"added_at" bson:"added_at"`
}

// Key derives the catalog key for a canonical encoding.
func Key(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// NewRecord builds a record for a canonical encoding, assigning a fresh ID
// and the derived key.
func NewRecord(canonical []byte, n, edges int) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Key:       Key(canonical),
		Canonical: string(canonical),
		N:         n,
		Edges:     edges,
		AddedAt:   time.Now().UTC(),
	}
}

// Store is the interface for catalog backends.
type Store interface {
	// Put stores a record, overwriting any record with the same key.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by key. Returns ErrNotFound when absent.
	Get(ctx context.Context, key string) (*Record, error)

	// Has reports whether a record exists for the key.
	Has(ctx context.Context, key string) (bool, error)

	// Delete removes a record. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Count returns the number of records.
	Count(ctx context.Context) (int64, error)

	// Close releases backend resources.
	Close() error
}
