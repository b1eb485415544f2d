package storage

import (
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/google/uuid"

	"github.com/voxelplots/server/server/world"
)

// OwnershipRegistry records which player owns which plot, backed by LevelDB.
// This supplements the specification's filesystem layout: per-plot ownership
// is not externally observable on disk in the described layout, but the
// "owner: Option<u128>" field of the plot worker state (spec §3) must come
// from somewhere durable across restarts.
type OwnershipRegistry struct {
	db *leveldb.DB
}

// OpenOwnershipRegistry opens (creating if absent) the LevelDB database at
// dir.
func OpenOwnershipRegistry(dir string) (*OwnershipRegistry, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open ownership registry: %w", err)
	}
	return &OwnershipRegistry{db: db}, nil
}

// Close releases the underlying database handle.
func (r *OwnershipRegistry) Close() error { return r.db.Close() }

func ownershipKey(pos world.PlotPos) []byte {
	return []byte(fmt.Sprintf("plot:%d,%d", pos.X, pos.Z))
}

// Owner returns the UUID that claimed pos, if any.
func (r *OwnershipRegistry) Owner(pos world.PlotPos) (uuid.UUID, bool) {
	data, err := r.db.Get(ownershipKey(pos), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return uuid.UUID{}, false
	}
	if err != nil || len(data) != 16 {
		return uuid.UUID{}, false
	}
	id, err := uuid.FromBytes(data)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

// Claim records owner as pos's owner.
func (r *OwnershipRegistry) Claim(pos world.PlotPos, owner uuid.UUID) error {
	return r.db.Put(ownershipKey(pos), owner[:], nil)
}

// Release removes any ownership record for pos.
func (r *OwnershipRegistry) Release(pos world.PlotPos) error {
	return r.db.Delete(ownershipKey(pos), nil)
}
