package main

import (
	"errors"

	"github.com/revelaction/qadiv/storage/sqlite/zombiezen"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Pool opens each SQLite file once per run. The parse cache and the
// results may share the same file.
type Pool struct {
	pools map[string]*sqlitex.Pool
}

// Open returns the pool of path, creating the given schemas.
func (p *Pool) Open(path string, schemas ...string) (*sqlitex.Pool, error) {
	pool, ok := p.pools[path]
	if !ok {
		var err error
		pool, err = zombiezen.NewPool(path)
		if err != nil {
			return nil, err
		}
		if p.pools == nil {
			p.pools = map[string]*sqlitex.Pool{}
		}
		p.pools[path] = pool
	}

	if err := zombiezen.CreateSchemas(pool, schemas...); err != nil {
		return nil, err
	}
	return pool, nil
}

func (p *Pool) Close() error {
	var errs []error
	for _, pool := range p.pools {
		errs = append(errs, pool.Close())
	}
	p.pools = nil
	return errors.Join(errs...)
}
