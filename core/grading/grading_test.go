package grading

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		grades      Grades
		wantPoints  int
		wantCredits int
		wantCGPA    string
		wantGrade   string
	}{
		{
			name:        "no jcp",
			grades:      Grades{OS: "A+", DBMS: "A+", DS: "A", COA: "B+", Java: "A"},
			wantPoints:  134,
			wantCredits: 16,
			wantCGPA:    "8.38",
			wantGrade:   "A+",
		},
		{
			name:        "dash jcp",
			grades:      Grades{OS: "A+", DBMS: "A+", DS: "A", COA: "B+", Java: "A", JCP: NoGrade},
			wantPoints:  134,
			wantCredits: 16,
			wantCGPA:    "8.38",
			wantGrade:   "A+",
		},
		{
			name:        "with jcp",
			grades:      Grades{OS: "A+", DBMS: "A+", DS: "A", COA: "B+", Java: "A", JCP: "O+"},
			wantPoints:  154,
			wantCredits: 18,
			wantCGPA:    "8.56",
			wantGrade:   "A+",
		},
		{
			name:        "all O+",
			grades:      Grades{OS: "O+", DBMS: "O+", DS: "O+", COA: "O+", Java: "O+", JCP: "O+"},
			wantPoints:  180,
			wantCredits: 18,
			wantCGPA:    "10.00",
			wantGrade:   "O+",
		},
		{
			name:        "all D+",
			grades:      Grades{OS: "D+", DBMS: "D+", DS: "D+", COA: "D+", Java: "D+"},
			wantPoints:  48,
			wantCredits: 16,
			wantCGPA:    "3.00",
			wantGrade:   "D+",
		},
		{
			name:        "exactly 9 is O+",
			grades:      Grades{OS: "A+", DBMS: "A+", DS: "A+", COA: "A+", Java: "A+"},
			wantPoints:  144,
			wantCredits: 16,
			wantCGPA:    "9.00",
			wantGrade:   "O+",
		},
		{
			name:        "exactly 4 is C+",
			grades:      Grades{OS: "C", DBMS: "C", DS: "C", COA: "C", Java: "C"},
			wantPoints:  64,
			wantCredits: 16,
			wantCGPA:    "4.00",
			wantGrade:   "C+",
		},
		{
			name:        "half rounds up",
			grades:      Grades{OS: "A+", DBMS: "A+", DS: "A", COA: "A", Java: "B"},
			wantPoints:  130,
			wantCredits: 16,
			wantCGPA:    "8.13",
			wantGrade:   "A+",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Calculate(tt.grades)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoints, res.TotalPoints)
			assert.Equal(t, tt.wantCredits, res.TotalCredits)
			assert.Equal(t, tt.wantCGPA, res.CGPA.String())
			assert.Equal(t, tt.wantGrade, res.Grade)
		})
	}
}

func TestCalculate_unknownGrade(t *testing.T) {
	tests := []struct {
		name        string
		grades      Grades
		wantSubject string
	}{
		{name: "required", grades: Grades{OS: "Z", DBMS: "A", DS: "A", COA: "A", Java: "A"}, wantSubject: OS},
		{name: "missing required", grades: Grades{OS: "A", DBMS: "A", DS: "A", COA: "A"}, wantSubject: Java},
		{name: "provided jcp", grades: Grades{OS: "A", DBMS: "A", DS: "A", COA: "A", Java: "A", JCP: "E"}, wantSubject: JCP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.grades)
			if !errors.Is(err, ErrUnknownGrade) {
				t.Fatalf("Calculate() error = %v, want ErrUnknownGrade", err)
			}
			var gErr *UnknownGradeError
			require.True(t, errors.As(err, &gErr))
			assert.Equal(t, tt.wantSubject, gErr.Subject)
		})
	}
}

// exactLetter bands the unrounded points/credits ratio.
func exactLetter(points, credits int) string {
	for _, b := range bands {
		if points >= b.min*credits {
			return b.letter
		}
	}
	return lowestLetter
}

// every combination of grades must round points/credits to the nearest hundredth,
// and rounding must never move a CGPA across a band.
func TestCalculate_allCombinations(t *testing.T) {
	letters := make([]string, 0, len(scale)+1)
	for _, g := range scale {
		letters = append(letters, g.Letter)
	}
	jcps := append([]string{""}, letters...)

	for _, os := range letters {
		for _, dbms := range letters {
			for _, ds := range letters {
				for _, coa := range letters {
					for _, java := range letters {
						for _, jcp := range jcps {
							g := Grades{OS: os, DBMS: dbms, DS: ds, COA: coa, Java: java, JCP: jcp}
							res, err := Calculate(g)
							if err != nil {
								t.Fatalf("Calculate(%+v) error = %v", g, err)
							}
							wantCredits := 16
							if jcp != "" {
								wantCredits = 18
							}
							if res.TotalCredits != wantCredits {
								t.Fatalf("Calculate(%+v) credits = %d, want %d", g, res.TotalCredits, wantCredits)
							}
							want := CGPA(math.Floor(float64(res.TotalPoints)*100/float64(res.TotalCredits) + .5))
							if res.CGPA != want {
								t.Fatalf("Calculate(%+v) cgpa = %v, want %v", g, res.CGPA, want)
							}
							if res.CGPA < 300 || res.CGPA > 1000 {
								t.Fatalf("Calculate(%+v) cgpa = %v out of range", g, res.CGPA)
							}
							if exact := exactLetter(res.TotalPoints, res.TotalCredits); res.Grade != exact {
								t.Fatalf("Calculate(%+v) grade = %s, exact ratio gives %s", g, res.Grade, exact)
							}
							if again, _ := Calculate(g); again != res {
								t.Fatalf("Calculate(%+v) is not deterministic", g)
							}
						}
					}
				}
			}
		}
	}
}

func TestLetter(t *testing.T) {
	tests := []struct {
		cgpa CGPA
		want string
	}{
		{1000, "O+"},
		{900, "O+"},
		{899, "A+"},
		{800, "A+"},
		{799, "A"},
		{700, "A"},
		{600, "B+"},
		{500, "B"},
		{400, "C+"},
		{399, "D+"},
		{300, "D+"},
	}
	for _, tt := range tests {
		t.Run(tt.cgpa.String(), func(t *testing.T) {
			if got := Letter(tt.cgpa); got != tt.want {
				t.Errorf("Letter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCGPA_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		CGPA CGPA `json:"cgpa"`
	}{CGPA: 805})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cgpa": 8.05}`, string(data))

	var c CGPA
	require.NoError(t, json.Unmarshal([]byte("8.38"), &c))
	assert.Equal(t, CGPA(838), c)
	assert.Equal(t, 8.38, c.Float64())
}

func TestTablesAreCopies(t *testing.T) {
	s := Scale()
	s[0].Points = 0
	assert.Equal(t, 10, Scale()[0].Points)

	subj := Subjects()
	subj[0].Credits = 0
	assert.Equal(t, 4, Subjects()[0].Credits)
}
