package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/student"
	"github.com/trezcool/marks/storage"
	"github.com/trezcool/marks/storage/cache"
	"github.com/trezcool/marks/tests"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	conf := testutil.NewConfig()
	logger := testutil.NewLogger(conf)

	t.Run("memory", func(t *testing.T) {
		stores, err := storage.Open(ctx, conf, logger, true)
		require.NoError(t, err)
		defer func() { assert.NoError(t, stores.Close()) }()

		assert.Nil(t, stores.SQL)
		assert.NotNil(t, stores.Users)
		_, cached := stores.Students.(*cache.StudentRepository)
		assert.False(t, cached)
	})

	t.Run("memory with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		conf := *conf
		conf.Redis = core.RedisConfig{Address: mr.Addr(), TTL: time.Minute}

		stores, err := storage.Open(ctx, &conf, logger, false)
		require.NoError(t, err)
		defer func() { assert.NoError(t, stores.Close()) }()

		_, cached := stores.Students.(*cache.StudentRepository)
		assert.True(t, cached)

		svc := student.NewService(stores.Students)
		testutil.CreateStudent(t, svc, student.NewStudent{
			Name: "Alice", Email: "alice@test.cd", OS: "A", DBMS: "A", DS: "A", COA: "A", Java: "A",
		})
		students, err := svc.Query(ctx, nil, nil)
		require.NoError(t, err)
		assert.Len(t, students, 1)
	})

	t.Run("unknown engine", func(t *testing.T) {
		conf := *conf
		conf.Database.Engine = "sqlite"
		_, err := storage.Open(ctx, &conf, logger, false)
		assert.EqualError(t, err, `unknown database engine "sqlite"`)
	})
}
