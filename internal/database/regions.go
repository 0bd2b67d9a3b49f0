package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Regions holds the database handles of a deployment: one global
// database for user accounts and one local database per region for
// everything else (movies, halls, shows, reservations, payments).
// The stores are fully independent; the only link between them is the
// numeric user id carried by reservations, with no cross-database
// foreign key or transaction.
type Regions struct {
	Global *sql.DB
	local  map[string]*sql.DB
}

// NewRegions builds a region store from an already-open global handle
// and a map of region name to local handle.
func NewRegions(global *sql.DB, local map[string]*sql.DB) *Regions {
	return &Regions{Global: global, local: local}
}

// Local returns the database for a region, or an error naming the
// supported regions when the name is unknown.  Handlers translate
// that error into a 400 response.
func (r *Regions) Local(region string) (*sql.DB, error) {
	db, ok := r.local[region]
	if !ok {
		return nil, fmt.Errorf("invalid region: %s (supported: %v)", region, r.Names())
	}
	return db, nil
}

// Names returns the sorted region names.
func (r *Regions) Names() []string {
	names := make([]string, 0, len(r.local))
	for name := range r.local {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every handle, returning the first error encountered.
func (r *Regions) Close() error {
	var first error
	if err := r.Global.Close(); err != nil {
		first = err
	}
	for _, db := range r.local {
		if err := db.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
