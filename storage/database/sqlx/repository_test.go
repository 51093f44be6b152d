package sqlxrepos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/student"
)

var studentColumns = []string{"id", "name", "email", "os", "dbms", "ds", "coa", "java", "jcp", "cgpa", "grade", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func Test_studentRepository_CreateStudent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).WillReturnResult(sqlmock.NewResult(0, 1))

	std, err := repo.CreateStudent(context.Background(), student.Student{Name: "Alice", CGPA: 838})
	require.NoError(t, err)
	_, err = uuid.Parse(std.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Alice", std.Name)
}

func Test_studentRepository_QueryStudents(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	filter := &student.QueryFilter{Search: "ali"}
	ordering := []core.DBOrdering{{Field: "cgpa"}}
	q, _ := buildQuery(filter, ordering)
	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs("%ali%").
		WillReturnRows(sqlmock.NewRows(studentColumns).
			AddRow("id-1", "Alice", "alice@test.cd", "A+", "A+", "A", "B+", "A", nil, 8.38, "A+", now, now).
			AddRow("id-2", "Alicia", "alicia@test.cd", "A+", "A+", "A", "B+", "A", "O+", 8.56, "A+", now, now))

	students, err := repo.QueryStudents(context.Background(), filter, ordering)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "", students[0].JCP)
	assert.Equal(t, "8.38", students[0].CGPA.String())
	assert.Equal(t, "O+", students[1].JCP)
	assert.Equal(t, "8.56", students[1].CGPA.String())
}

func Test_studentRepository_GetStudent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)
	id := uuid.New().String()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM students WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(studentColumns))

	_, err := repo.GetStudent(context.Background(), id)
	assert.Equal(t, student.ErrNotFound, err)

	// not a uuid: no query
	_, err = repo.GetStudent(context.Background(), "lol")
	assert.Equal(t, student.ErrNotFound, err)
}

func Test_studentRepository_UpdateStudent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	id := uuid.New().String()
	std := student.Student{
		ID: id, Name: "Alice", Email: "alice@test.cd",
		OS: "O+", DBMS: "O+", DS: "O+", COA: "O+", Java: "O+",
		CGPA: 1000, Grade: "O+", UpdatedAt: updated,
	}
	updateQ := `(?s)UPDATE students SET .* WHERE id = \$\d+ RETURNING \*`

	t.Run("updated", func(t *testing.T) {
		mock.ExpectQuery(updateQ).
			WillReturnRows(sqlmock.NewRows(studentColumns).
				AddRow(id, "Alice", "alice@test.cd", "O+", "O+", "O+", "O+", "O+", nil, 10.0, "O+", created, updated))

		got, err := repo.UpdateStudent(context.Background(), std)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "10.00", got.CGPA.String())
		assert.True(t, created.Equal(got.CreatedAt))
		assert.True(t, updated.Equal(got.UpdatedAt))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(updateQ).WillReturnRows(sqlmock.NewRows(studentColumns))

		_, err := repo.UpdateStudent(context.Background(), std)
		assert.Equal(t, student.ErrNotFound, err)
	})
}

func Test_studentRepository_DeleteStudent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)
	id := uuid.New().String()
	deleteQ := regexp.QuoteMeta("DELETE FROM students WHERE id = $1")

	mock.ExpectExec(deleteQ).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteStudent(context.Background(), id))

	mock.ExpectExec(deleteQ).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.Equal(t, student.ErrNotFound, repo.DeleteStudent(context.Background(), id))

	assert.Equal(t, student.ErrNotFound, repo.DeleteStudent(context.Background(), "lol"))
}
