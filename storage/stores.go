// Package storage builds the record repositories of the configured database engine.
package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/student"
	"github.com/trezcool/marks/core/user"
	"github.com/trezcool/marks/storage/cache"
	"github.com/trezcool/marks/storage/database"
	dummydb "github.com/trezcool/marks/storage/database/dummy"
	sqlxrepos "github.com/trezcool/marks/storage/database/sqlx"
	mongorepos "github.com/trezcool/marks/storage/mongodb"
)

type Stores struct {
	Users    user.Repository
	Students student.Repository
	SQL      *sqlx.DB // nil unless the engine is postgres

	closers []func() error
}

// Close releases every connection opened by Open.
func (s *Stores) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open connects to the configured engine and returns its repositories.
// The student listing is cached in Redis when conf.Redis.Address is set.
// PostgreSQL is created and migrated when migrate is true.
func Open(ctx context.Context, conf *core.Config, logger core.Logger, migrate bool) (*Stores, error) {
	s := new(Stores)

	switch conf.Database.Engine {
	case core.EngineMemory:
		db := dummydb.Open()
		s.Users = dummydb.NewUserRepository(db)
		s.Students = dummydb.NewStudentRepository(db)

	case core.EnginePostgres:
		if migrate {
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				return nil, err
			}
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		if migrate {
			if err = database.Migrate(db.DB); err != nil {
				_ = s.Close()
				return nil, err
			}
		}
		s.SQL = db
		s.Users = sqlxrepos.NewUserRepository(db)
		s.Students = sqlxrepos.NewStudentRepository(db)

	case core.EngineMongo:
		client, db, err := mongorepos.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() error { return client.Disconnect(context.Background()) })
		s.Users = mongorepos.NewUserRepository(db)
		s.Students = mongorepos.NewStudentRepository(db)

	default:
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}

	if conf.Redis.Address != "" {
		rdb, err := cache.Open(ctx, conf.Redis.Address)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.closers = append(s.closers, rdb.Close)
		s.Students = cache.NewStudentRepository(s.Students, rdb, conf.Redis.TTL, logger)
	}
	return s, nil
}
