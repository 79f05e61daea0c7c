package gradebook

import (
	"context"
)

// Grade is a letter grade label.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"

	// GradeF is implicit: any marks below the lowest cutoff.
	GradeF Grade = "F"
)

// Valid reports whether g is one of the six labeled grades a cutoff may be
// attached to (F is implicit and carries no cutoff).
func (g Grade) Valid() bool {
	switch g {
	case GradeAPlus, GradeA, GradeBPlus, GradeB, GradeCPlus, GradeC:
		return true
	}
	return false
}

// Threshold pairs a grade label with its numeric cutoff.
type Threshold struct {
	Grade  Grade   `json:"grade"`
	Cutoff float64 `json:"cutoff"`
}

// ThresholdMap is an explicitly ordered sequence of (grade, cutoff) pairs,
// highest rank first. Classification is first-match-wins over this order;
// keeping cutoffs monotonically non-increasing is the caller's responsibility.
type ThresholdMap []Threshold

// DefaultThresholds returns the cutoffs the app ships with.
func DefaultThresholds() ThresholdMap {
	return ThresholdMap{
		{GradeAPlus, 98},
		{GradeA, 92.5},
		{GradeBPlus, 89.9},
		{GradeB, 85},
		{GradeCPlus, 81},
		{GradeC, 75},
	}
}

// Student mirrors one remote student record.
type Student struct {
	ID    string  `json:"id" firestore:"-"`
	Name  string  `json:"name" firestore:"name"`
	Email string  `json:"email" firestore:"email"`
	Marks float64 `json:"marks" firestore:"marks"` // 0-100 domain, unvalidated
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name  string  `json:"name" validate:"required"`
	Email string  `json:"email" validate:"required,email"`
	Marks float64 `json:"marks"`
}

type Repository interface {
	QueryAllStudents(ctx context.Context) ([]Student, error)
	GetStudentByID(ctx context.Context, id string) (Student, error)
	CreateStudent(ctx context.Context, student Student) (Student, error)
	// UpdateStudentMarks updates the single marks field of one record.
	UpdateStudentMarks(ctx context.Context, id string, marks float64) error
}
