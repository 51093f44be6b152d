package student

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/grading"
)

// Student is a student record with its derived CGPA and letter grade.
type Student struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	OS        string       `json:"os"`
	DBMS      string       `json:"dbms"`
	DS        string       `json:"ds"`
	COA       string       `json:"coa"`
	Java      string       `json:"java"`
	JCP       string       `json:"jcp"` // empty when not taken; grading.NoGrade in JSON
	CGPA      grading.CGPA `json:"cgpa"`
	Grade     string       `json:"grade"`
	CreatedAt time.Time    `json:"created_at"` // UTC
	UpdatedAt time.Time    `json:"updated_at"` // UTC
}

func (s Student) Grades() grading.Grades {
	return grading.Grades{OS: s.OS, DBMS: s.DBMS, DS: s.DS, COA: s.COA, Java: s.Java, JCP: s.JCP}
}

// DisplayJCP returns the JCP grade, or grading.NoGrade when it was not taken.
func (s Student) DisplayJCP() string {
	if !grading.Provided(s.JCP) {
		return grading.NoGrade
	}
	return s.JCP
}

type studentJSON Student

// MarshalJSON renders a JCP that was not taken as grading.NoGrade.
func (s Student) MarshalJSON() ([]byte, error) {
	js := studentJSON(s)
	js.JCP = s.DisplayJCP()
	return json.Marshal(js)
}

func (s *Student) UnmarshalJSON(data []byte) error {
	var js studentJSON
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	*s = Student(js)
	if !grading.Provided(s.JCP) {
		s.JCP = ""
	}
	return nil
}

// NewStudent contains the information needed to create or replace a Student.
type NewStudent struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	OS    string `json:"os" validate:"required,grade"`
	DBMS  string `json:"dbms" validate:"required,grade"`
	DS    string `json:"ds" validate:"required,grade"`
	COA   string `json:"coa" validate:"required,grade"`
	Java  string `json:"java" validate:"required,grade"`
	JCP   string `json:"jcp" validate:"omitempty,grade"`
}

func (ns NewStudent) Grades() grading.Grades {
	return grading.Grades{OS: ns.OS, DBMS: ns.DBMS, DS: ns.DS, COA: ns.COA, Java: ns.Java, JCP: ns.JCP}
}

// Clean normalizes ns in place: trimmed strings, lowered email, upper-cased grades and an empty JCP when not taken.
func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.OS = cleanGrade(ns.OS)
	ns.DBMS = cleanGrade(ns.DBMS)
	ns.DS = cleanGrade(ns.DS)
	ns.COA = cleanGrade(ns.COA)
	ns.Java = cleanGrade(ns.Java)
	ns.JCP = cleanGrade(ns.JCP)
	if !grading.Provided(ns.JCP) {
		ns.JCP = ""
	}
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Clean()
	return validate.Struct(ns)
}

func cleanGrade(g string) string {
	return strings.ToUpper(core.CleanString(g))
}

type QueryFilter struct {
	Search string `query:"search"` // case-insensitive match on name or email
	Grade  string `query:"grade"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil || (qf.Search == "" && qf.Grade == "")
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Grade = cleanGrade(qf.Grade)
}

// Matches reports whether s passes the filter.
func (qf *QueryFilter) Matches(s Student) bool {
	if qf.IsEmpty() {
		return true
	}
	if qf.Grade != "" && s.Grade != qf.Grade {
		return false
	}
	if qf.Search != "" {
		search := strings.ToLower(qf.Search)
		return strings.Contains(strings.ToLower(s.Name), search) || strings.Contains(strings.ToLower(s.Email), search)
	}
	return true
}
