package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/PranayN1999/my-gradebook-app/core/gradebook"
)

type studentRepository struct {
	db *studentTable
}

var _ gradebook.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) gradebook.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []gradebook.Student {
	students := make([]gradebook.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]gradebook.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (gradebook.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return gradebook.Student{}, gradebook.ErrStudentNotFound
}

func (repo *studentRepository) CreateStudent(_ context.Context, student gradebook.Student) (gradebook.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if student.ID == "" {
		student.ID = uuid.New().String()
	}
	repo.db.table[student.ID] = &student
	return student, nil
}

func (repo *studentRepository) UpdateStudentMarks(_ context.Context, id string, marks float64) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if s, ok := repo.db.table[id]; ok {
		s.Marks = marks
		return nil
	}
	return gradebook.ErrStudentNotFound
}
