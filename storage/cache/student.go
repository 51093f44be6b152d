// Package cache caches the unfiltered student listing in Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/student"
)

const listKey = "marks:students:all"

// Open connects to Redis at addr.
func Open(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return rdb, nil
}

// StudentRepository decorates a student.Repository, serving the unfiltered and unordered listing from Redis.
// Every write invalidates the cached listing. Redis failures are logged and fall back to the decorated repository.
type StudentRepository struct {
	student.Repository
	rdb    *redis.Client
	ttl    time.Duration
	logger core.Logger
}

var _ student.Repository = (*StudentRepository)(nil) // interface compliance check

func NewStudentRepository(repo student.Repository, rdb *redis.Client, ttl time.Duration, logger core.Logger) *StudentRepository {
	return &StudentRepository{Repository: repo, rdb: rdb, ttl: ttl, logger: logger}
}

func (repo *StudentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	if !filter.IsEmpty() || len(ordering) > 0 {
		return repo.Repository.QueryStudents(ctx, filter, ordering)
	}

	data, err := repo.rdb.Get(ctx, listKey).Bytes()
	switch {
	case err == nil:
		var students []student.Student
		if err = json.Unmarshal(data, &students); err == nil {
			return students, nil
		}
		repo.logger.Warn(fmt.Sprintf("decoding cached students: %v", err), err)
	case err != redis.Nil:
		repo.logger.Warn(fmt.Sprintf("reading cached students: %v", err), err)
	}

	students, err := repo.Repository.QueryStudents(ctx, filter, ordering)
	if err != nil {
		return nil, err
	}
	if data, err = json.Marshal(students); err == nil {
		err = repo.rdb.Set(ctx, listKey, data, repo.ttl).Err()
	}
	if err != nil {
		repo.logger.Warn(fmt.Sprintf("caching students: %v", err), err)
	}
	return students, nil
}

func (repo *StudentRepository) invalidate(ctx context.Context) {
	if err := repo.rdb.Del(ctx, listKey).Err(); err != nil {
		repo.logger.Warn(fmt.Sprintf("invalidating cached students: %v", err), err)
	}
}

func (repo *StudentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std, err := repo.Repository.CreateStudent(ctx, std)
	if err == nil {
		repo.invalidate(ctx)
	}
	return std, err
}

func (repo *StudentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std, err := repo.Repository.UpdateStudent(ctx, std)
	if err == nil {
		repo.invalidate(ctx)
	}
	return std, err
}

func (repo *StudentRepository) DeleteStudent(ctx context.Context, id string) error {
	err := repo.Repository.DeleteStudent(ctx, id)
	if err == nil {
		repo.invalidate(ctx)
	}
	return err
}
