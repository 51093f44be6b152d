// Package sqlxrepos implements the repositories on PostgreSQL.
package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/grading"
	"github.com/trezcool/marks/core/student"
)

type studentRow struct {
	ID        string      `db:"id"`
	Name      string      `db:"name"`
	Email     string      `db:"email"`
	OS        string      `db:"os"`
	DBMS      string      `db:"dbms"`
	DS        string      `db:"ds"`
	COA       string      `db:"coa"`
	Java      string      `db:"java"`
	JCP       null.String `db:"jcp"`
	CGPA      float64     `db:"cgpa"`
	Grade     string      `db:"grade"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func newStudentRow(std student.Student) studentRow {
	return studentRow{
		ID:        std.ID,
		Name:      std.Name,
		Email:     std.Email,
		OS:        std.OS,
		DBMS:      std.DBMS,
		DS:        std.DS,
		COA:       std.COA,
		Java:      std.Java,
		JCP:       null.NewString(std.JCP, grading.Provided(std.JCP)),
		CGPA:      std.CGPA.Float64(),
		Grade:     std.Grade,
		CreatedAt: std.CreatedAt,
		UpdatedAt: std.UpdatedAt,
	}
}

func (r studentRow) student() student.Student {
	return student.Student{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		OS:        r.OS,
		DBMS:      r.DBMS,
		DS:        r.DS,
		COA:       r.COA,
		Java:      r.Java,
		JCP:       r.JCP.String,
		CGPA:      grading.CGPAFromFloat(r.CGPA),
		Grade:     r.Grade,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	q := `INSERT INTO students (id, name, email, os, dbms, ds, coa, java, jcp, cgpa, grade, created_at, updated_at)
		VALUES (:id, :name, :email, :os, :dbms, :ds, :coa, :java, :jcp, :cgpa, :grade, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newStudentRow(std)); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

// buildQuery returns the SELECT statement for filter and ordering.
// ordering fields must have been checked against student.OrderingFields.
func buildQuery(filter *student.QueryFilter, ordering []core.DBOrdering) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	if !filter.IsEmpty() {
		if filter.Search != "" {
			args = append(args, "%"+escapeLike(filter.Search)+"%")
			where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%[1]d)", len(args)))
		}
		if filter.Grade != "" {
			args = append(args, filter.Grade)
			where = append(where, fmt.Sprintf("grade = $%d", len(args)))
		}
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM students")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	orderBy := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		orderBy = append(orderBy, ord.String())
	}
	orderBy = append(orderBy, "created_at ASC", "id ASC") // insertion order
	b.WriteString(" ORDER BY " + strings.Join(orderBy, ", "))
	return b.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	q, args := buildQuery(filter, ordering)
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM students WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "selecting student")
	}
	return row.student(), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	if _, err := uuid.Parse(std.ID); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	q := `UPDATE students SET name = :name, email = :email, os = :os, dbms = :dbms, ds = :ds, coa = :coa,
		java = :java, jcp = :jcp, cgpa = :cgpa, grade = :grade, updated_at = :updated_at
		WHERE id = :id RETURNING *`
	rows, err := repo.db.NamedQueryContext(ctx, q, newStudentRow(std))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return student.Student{}, errors.Wrap(err, "updating student")
		}
		return student.Student{}, student.ErrNotFound
	}
	var row studentRow
	if err = rows.StructScan(&row); err != nil {
		return student.Student{}, errors.Wrap(err, "scanning student")
	}
	return row.student(), nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return student.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n == 0 {
		return student.ErrNotFound
	}
	return nil
}
