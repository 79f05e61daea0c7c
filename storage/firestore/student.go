package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PranayN1999/my-gradebook-app/core"
	"github.com/PranayN1999/my-gradebook-app/core/gradebook"
)

type studentRepository struct {
	client     *firestore.Client
	collection string
}

var _ gradebook.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(client *firestore.Client, conf *core.Config) gradebook.Repository {
	return &studentRepository{
		client:     client,
		collection: conf.Firestore.StudentsCollection,
	}
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]gradebook.Student, error) {
	var students []gradebook.Student

	iter := repo.client.Collection(repo.collection).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var s gradebook.Student
		if err := doc.DataTo(&s); err != nil {
			return nil, err
		}
		s.ID = doc.Ref.ID
		students = append(students, s)
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (gradebook.Student, error) {
	doc, err := repo.client.Collection(repo.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return gradebook.Student{}, gradebook.ErrStudentNotFound
		}
		return gradebook.Student{}, err
	}

	var s gradebook.Student
	if err := doc.DataTo(&s); err != nil {
		return gradebook.Student{}, err
	}
	s.ID = doc.Ref.ID
	return s, nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, student gradebook.Student) (gradebook.Student, error) {
	ref, _, err := repo.client.Collection(repo.collection).Add(ctx, student)
	if err != nil {
		return gradebook.Student{}, err
	}
	student.ID = ref.ID
	return student, nil
}

func (repo *studentRepository) UpdateStudentMarks(ctx context.Context, id string, marks float64) error {
	_, err := repo.client.Collection(repo.collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "marks", Value: marks},
	})
	if status.Code(err) == codes.NotFound {
		return gradebook.ErrStudentNotFound
	}
	return err
}
