package student

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/grading"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	nowFunc = time.Now // mockable
)

// OrderingFields are the Student fields a query can be ordered by.
var OrderingFields = []string{"name", "email", "cgpa", "grade", "created_at", "updated_at"}

type Repository interface {
	CreateStudent(ctx context.Context, std Student) (Student, error)
	// QueryStudents returns the students matching filter, in insertion order unless ordering is given.
	QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
	GetStudent(ctx context.Context, id string) (Student, error)
	// UpdateStudent replaces every field of the stored student but its ID and CreatedAt.
	UpdateStudent(ctx context.Context, std Student) (Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// derive computes the CGPA and letter grade of std.
func derive(std *Student) error {
	res, err := grading.Calculate(std.Grades())
	if err != nil {
		var gErr *grading.UnknownGradeError
		if errors.As(err, &gErr) {
			return core.NewValidationError(err, core.FieldError{Field: gErr.Subject, Error: err.Error()})
		}
		return err
	}
	std.CGPA = res.CGPA
	std.Grade = res.Grade
	return nil
}

func fromNewStudent(ns NewStudent) Student {
	std := Student{
		Name:  ns.Name,
		Email: ns.Email,
		OS:    ns.OS,
		DBMS:  ns.DBMS,
		DS:    ns.DS,
		COA:   ns.COA,
		Java:  ns.Java,
	}
	if grading.Provided(ns.JCP) {
		std.JCP = ns.JCP
	}
	return std
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	std := fromNewStudent(ns)
	if err := derive(&std); err != nil {
		return Student{}, err
	}
	now := nowFunc().UTC()
	std.CreatedAt = now
	std.UpdatedAt = now
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	if err := checkOrdering(ordering); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = new(QueryFilter)
	}
	filter.Clean()
	return svc.repo.QueryStudents(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

// Update replaces the student identified by id with ns, recomputing its CGPA and letter grade.
func (svc *Service) Update(ctx context.Context, id string, ns NewStudent) (Student, error) {
	std := fromNewStudent(ns)
	if err := derive(&std); err != nil {
		return Student{}, err
	}
	std.ID = id
	std.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}

// Recompute refreshes the derived fields of every stored student and returns how many changed.
func (svc *Service) Recompute(ctx context.Context) (int, error) {
	students, err := svc.repo.QueryStudents(ctx, new(QueryFilter), nil)
	if err != nil {
		return 0, err
	}
	var n int
	for _, std := range students {
		orig := std
		if err := derive(&std); err != nil {
			return n, fmt.Errorf("student %s: %w", std.ID, err)
		}
		if std.CGPA == orig.CGPA && std.Grade == orig.Grade {
			continue
		}
		std.UpdatedAt = nowFunc().UTC()
		if _, err := svc.repo.UpdateStudent(ctx, std); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func checkOrdering(ordering []core.DBOrdering) error {
	for _, ord := range ordering {
		if !isOrderingField(ord.Field) {
			err := fmt.Errorf("cannot order by %q", ord.Field)
			return core.NewValidationError(err, core.FieldError{
				Field: "ordering",
				Error: "must be one of " + strings.Join(OrderingFields, ", "),
			})
		}
	}
	return nil
}

func isOrderingField(field string) bool {
	for _, f := range OrderingFields {
		if f == field {
			return true
		}
	}
	return false
}
