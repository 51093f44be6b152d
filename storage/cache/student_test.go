package cache

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/student"
	logsvc "github.com/trezcool/marks/services/logger"
	"github.com/trezcool/marks/storage/database/dummy"
)

// countingRepository counts the queries reaching the decorated repository.
type countingRepository struct {
	student.Repository
	queries int
}

func (repo *countingRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.queries++
	return repo.Repository.QueryStudents(ctx, filter, ordering)
}

func setup(t *testing.T) (*StudentRepository, *countingRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{})
	logger.Enable(false)

	inner := &countingRepository{Repository: dummydb.NewStudentRepository(dummydb.Open())}
	return NewStudentRepository(inner, rdb, time.Minute, logger), inner, mr
}

func newStudent(name string) student.Student {
	now := time.Now().UTC()
	return student.Student{Name: name, Email: name + "@test.cd", OS: "A", DBMS: "A", DS: "A", COA: "A", Java: "A", CGPA: 800, Grade: "A+", CreatedAt: now, UpdatedAt: now}
}

func TestStudentRepository_QueryStudents(t *testing.T) {
	repo, inner, mr := setup(t)
	ctx := context.Background()

	alice, err := repo.CreateStudent(ctx, newStudent("alice"))
	require.NoError(t, err)

	// miss then hit
	got, err := repo.QueryStudents(ctx, &student.QueryFilter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []student.Student{alice}, got)
	assert.True(t, mr.Exists(listKey))
	assert.Equal(t, time.Minute, mr.TTL(listKey))

	got, err = repo.QueryStudents(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []student.Student{alice}, got)
	assert.Equal(t, 1, inner.queries)

	// filtered & ordered queries bypass the cache
	_, err = repo.QueryStudents(ctx, &student.QueryFilter{Search: "ali"}, nil)
	require.NoError(t, err)
	_, err = repo.QueryStudents(ctx, nil, core.ParseOrdering("name"))
	require.NoError(t, err)
	assert.Equal(t, 3, inner.queries)
}

func TestStudentRepository_invalidation(t *testing.T) {
	repo, inner, mr := setup(t)
	ctx := context.Background()

	alice, err := repo.CreateStudent(ctx, newStudent("alice"))
	require.NoError(t, err)

	writes := []struct {
		name  string
		write func() error
	}{
		{name: "create", write: func() error {
			_, err := repo.CreateStudent(ctx, newStudent("bob"))
			return err
		}},
		{name: "update", write: func() error {
			alice.Name = "Alice"
			_, err := repo.UpdateStudent(ctx, alice)
			return err
		}},
		{name: "delete", write: func() error { return repo.DeleteStudent(ctx, alice.ID) }},
	}
	for _, w := range writes {
		t.Run(w.name, func(t *testing.T) {
			_, err := repo.QueryStudents(ctx, nil, nil)
			require.NoError(t, err)
			require.True(t, mr.Exists(listKey))

			require.NoError(t, w.write())
			assert.False(t, mr.Exists(listKey))

			before := inner.queries
			_, err = repo.QueryStudents(ctx, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, before+1, inner.queries)
		})
	}

	// failed writes leave the cache alone
	_, err = repo.QueryStudents(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, student.ErrNotFound, repo.DeleteStudent(ctx, "nope"))
	assert.True(t, mr.Exists(listKey))
}

func TestStudentRepository_redisDown(t *testing.T) {
	repo, inner, mr := setup(t)
	ctx := context.Background()

	alice, err := repo.CreateStudent(ctx, newStudent("alice"))
	require.NoError(t, err)
	mr.Close()

	got, err := repo.QueryStudents(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []student.Student{alice}, got)
	assert.Equal(t, 1, inner.queries)

	require.NoError(t, repo.DeleteStudent(ctx, alice.ID))
}
