// Package grading turns per-subject letter grades into a credit-weighted CGPA and an overall letter grade.
//
// The grade scale and the subject credit weights are fixed tables; Calculate is a pure function of its input.
package grading

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Subjects
const (
	OS   = "os"
	DBMS = "dbms"
	DS   = "ds"
	COA  = "coa"
	Java = "java"
	JCP  = "jcp"
)

// NoGrade is how an optional subject that was not taken is rendered.
const NoGrade = "-"

// ErrUnknownGrade is matched by every *UnknownGradeError.
var ErrUnknownGrade = errors.New("unknown grade")

// UnknownGradeError is returned when a subject holds a grade missing from the scale.
type UnknownGradeError struct {
	Subject string
	Grade   string
}

func (e *UnknownGradeError) Error() string {
	return fmt.Sprintf("%s: unknown grade %q", e.Subject, e.Grade)
}

func (e *UnknownGradeError) Is(target error) bool { return target == ErrUnknownGrade }

type (
	// Grade is one step of the grade scale.
	Grade struct {
		Letter string `json:"letter"`
		Points int    `json:"points"`
	}

	// Subject is a graded course and its credit weight.
	Subject struct {
		Name     string `json:"name"`
		Credits  int    `json:"credits"`
		Optional bool   `json:"optional"`
	}

	// Grades holds the letter grade of each subject. JCP is optional: empty or NoGrade means not taken.
	Grades struct {
		OS   string
		DBMS string
		DS   string
		COA  string
		Java string
		JCP  string
	}

	// Result is the outcome of Calculate: weighted points over credits, rounded, and its letter grade.
	Result struct {
		TotalPoints  int
		TotalCredits int
		CGPA         CGPA
		Grade        string
	}
)

var (
	scale = [...]Grade{
		{"O+", 10},
		{"A+", 9},
		{"A", 8},
		{"B+", 7},
		{"B", 6},
		{"C+", 5},
		{"C", 4},
		{"D+", 3},
	}
	points = func() map[string]int {
		m := make(map[string]int, len(scale))
		for _, g := range scale {
			m[g.Letter] = g.Points
		}
		return m
	}()

	subjects = [...]Subject{
		{Name: OS, Credits: 4},
		{Name: DBMS, Credits: 4},
		{Name: DS, Credits: 3},
		{Name: COA, Credits: 2},
		{Name: Java, Credits: 3},
		{Name: JCP, Credits: 2, Optional: true},
	}

	// highest first; a CGPA below every band gets lowestLetter
	bands = [...]struct {
		min    int
		letter string
	}{
		{9, "O+"},
		{8, "A+"},
		{7, "A"},
		{6, "B+"},
		{5, "B"},
		{4, "C+"},
	}
	lowestLetter = "D+"
)

// Scale returns the grade scale, best grade first.
func Scale() []Grade {
	s := make([]Grade, len(scale))
	copy(s, scale[:])
	return s
}

// Subjects returns the graded subjects and their credit weights.
func Subjects() []Subject {
	s := make([]Subject, len(subjects))
	copy(s, subjects[:])
	return s
}

// IsGrade reports whether letter is on the grade scale.
func IsGrade(letter string) bool {
	_, ok := points[letter]
	return ok
}

// Provided reports whether an optional subject grade was given.
func Provided(letter string) bool {
	return letter != "" && letter != NoGrade
}

func (g Grades) of(subject string) string {
	switch subject {
	case OS:
		return g.OS
	case DBMS:
		return g.DBMS
	case DS:
		return g.DS
	case COA:
		return g.COA
	case Java:
		return g.Java
	case JCP:
		return g.JCP
	}
	return ""
}

// Calculate computes the credit-weighted CGPA of g and its letter grade.
func Calculate(g Grades) (Result, error) {
	var res Result
	for _, subj := range subjects {
		grade := g.of(subj.Name)
		if subj.Optional && !Provided(grade) {
			continue
		}
		pts, ok := points[grade]
		if !ok {
			return Result{}, &UnknownGradeError{Subject: subj.Name, Grade: grade}
		}
		res.TotalPoints += pts * subj.Credits
		res.TotalCredits += subj.Credits
	}

	// points / credits, rounded half up to hundredths
	res.CGPA = CGPA((200*res.TotalPoints + res.TotalCredits) / (2 * res.TotalCredits))
	res.Grade = Letter(res.CGPA)
	return res, nil
}

// Letter returns the letter grade of a CGPA. Bands are inclusive lower bounds.
func Letter(cgpa CGPA) string {
	for _, b := range bands {
		if int(cgpa) >= b.min*100 {
			return b.letter
		}
	}
	return lowestLetter
}

// CGPA is a grade point average in hundredths: 838 is 8.38.
type CGPA int

// CGPAFromFloat converts a decimal CGPA to hundredths.
func CGPAFromFloat(f float64) CGPA {
	return CGPA(math.Round(f * 100))
}

func (c CGPA) Float64() float64 {
	return float64(c) / 100
}

// String formats c with exactly 2 fraction digits.
func (c CGPA) String() string {
	return fmt.Sprintf("%d.%02d", int(c)/100, int(c)%100)
}

func (c CGPA) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CGPA) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("cgpa: %w", err)
	}
	*c = CGPAFromFloat(f)
	return nil
}
