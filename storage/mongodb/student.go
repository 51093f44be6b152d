package mongorepos

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/grading"
	"github.com/trezcool/marks/core/student"
)

// studentDoc stores a missing JCP as grading.NoGrade.
type studentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	OS        string             `bson:"os"`
	DBMS      string             `bson:"dbms"`
	DS        string             `bson:"ds"`
	COA       string             `bson:"coa"`
	Java      string             `bson:"java"`
	JCP       string             `bson:"jcp"`
	CGPA      float64            `bson:"cgpa"`
	Grade     string             `bson:"grade"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func newStudentDoc(std student.Student) studentDoc {
	return studentDoc{
		Name:      std.Name,
		Email:     std.Email,
		OS:        std.OS,
		DBMS:      std.DBMS,
		DS:        std.DS,
		COA:       std.COA,
		Java:      std.Java,
		JCP:       std.DisplayJCP(),
		CGPA:      std.CGPA.Float64(),
		Grade:     std.Grade,
		CreatedAt: std.CreatedAt,
		UpdatedAt: std.UpdatedAt,
	}
}

func (d studentDoc) student() student.Student {
	std := student.Student{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		OS:        d.OS,
		DBMS:      d.DBMS,
		DS:        d.DS,
		COA:       d.COA,
		Java:      d.Java,
		CGPA:      grading.CGPAFromFloat(d.CGPA),
		Grade:     d.Grade,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if grading.Provided(d.JCP) {
		std.JCP = d.JCP
	}
	return std
}

// bson field names of the orderable Student fields
var sortFields = map[string]string{
	"name":       "name",
	"email":      "email",
	"cgpa":       "cgpa",
	"grade":      "grade",
	"created_at": "createdAt",
	"updated_at": "updatedAt",
}

type studentRepository struct {
	coll *mongo.Collection
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *mongo.Database) student.Repository {
	return &studentRepository{coll: db.Collection(studentsCollection)}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	doc := newStudentDoc(std)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return doc.student(), nil
}

func buildFilter(filter *student.QueryFilter) bson.M {
	m := bson.M{}
	if filter.IsEmpty() {
		return m
	}
	if filter.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		m["$or"] = bson.A{bson.M{"name": rx}, bson.M{"email": rx}}
	}
	if filter.Grade != "" {
		m["grade"] = filter.Grade
	}
	return m
}

func buildSort(ordering []core.DBOrdering) bson.D {
	sort := make(bson.D, 0, len(ordering)+1)
	for _, ord := range ordering {
		field, ok := sortFields[ord.Field]
		if !ok {
			continue
		}
		direction := -1
		if ord.Ascending {
			direction = 1
		}
		sort = append(sort, bson.E{Key: field, Value: direction})
	}
	return append(sort, bson.E{Key: "_id", Value: 1}) // insertion order
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	cur, err := repo.coll.Find(ctx, buildFilter(filter), options.Find().SetSort(buildSort(ordering)))
	if err != nil {
		return nil, errors.Wrap(err, "finding students")
	}
	var docs []studentDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding students")
	}
	students := make([]student.Student, 0, len(docs))
	for _, d := range docs {
		students = append(students, d.student())
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var doc studentDoc
	if err = repo.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student")
	}
	return doc.student(), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	oid, err := primitive.ObjectIDFromHex(std.ID)
	if err != nil {
		return student.Student{}, student.ErrNotFound
	}
	doc := newStudentDoc(std)
	set := bson.M{
		"name":      doc.Name,
		"email":     doc.Email,
		"os":        doc.OS,
		"dbms":      doc.DBMS,
		"ds":        doc.DS,
		"coa":       doc.COA,
		"java":      doc.Java,
		"jcp":       doc.JCP,
		"cgpa":      doc.CGPA,
		"grade":     doc.Grade,
		"updatedAt": doc.UpdatedAt,
	}
	err = repo.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return doc.student(), nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return student.ErrNotFound
	}
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if res.DeletedCount == 0 {
		return student.ErrNotFound
	}
	return nil
}
