package sqlxrepos

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/student"
)

func Test_buildQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   *student.QueryFilter
		ordering []core.DBOrdering
		wantQ    string
		wantArgs []interface{}
	}{
		{
			name:  "all",
			wantQ: "SELECT * FROM students ORDER BY created_at ASC, id ASC",
		},
		{
			name:     "search",
			filter:   &student.QueryFilter{Search: "50%_off"},
			wantQ:    "SELECT * FROM students WHERE (name ILIKE $1 OR email ILIKE $1) ORDER BY created_at ASC, id ASC",
			wantArgs: []interface{}{`%50\%\_off%`},
		},
		{
			name:     "search, grade & ordering",
			filter:   &student.QueryFilter{Search: "ali", Grade: "A+"},
			ordering: core.ParseOrdering("-cgpa,name"),
			wantQ: "SELECT * FROM students WHERE (name ILIKE $1 OR email ILIKE $1) AND grade = $2 " +
				"ORDER BY cgpa DESC, name ASC, created_at ASC, id ASC",
			wantArgs: []interface{}{"%ali%", "A+"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := buildQuery(tt.filter, tt.ordering)
			assert.Equal(t, tt.wantQ, q)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_studentRow(t *testing.T) {
	std := student.Student{ID: "id", Name: "Alice", OS: "A", DBMS: "A", DS: "A", COA: "A", Java: "A", CGPA: 800, Grade: "A+"}
	row := newStudentRow(std)
	assert.False(t, row.JCP.Valid)
	assert.Equal(t, 8.0, row.CGPA)
	assert.Equal(t, std, row.student())

	std.JCP = "O+"
	row = newStudentRow(std)
	assert.True(t, row.JCP.Valid)
	assert.Equal(t, "O+", row.student().JCP)
}
