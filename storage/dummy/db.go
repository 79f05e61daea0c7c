package dummydb

import (
	"sync"

	"github.com/PranayN1999/my-gradebook-app/core"
	"github.com/PranayN1999/my-gradebook-app/core/gradebook"
)

type (
	DB struct {
		student *studentTable
		history *historyTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*gradebook.Student
	}

	historyTable struct {
		sync.RWMutex
		table []core.Notification
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{table: make(map[string]*gradebook.Student)},
		history: &historyTable{},
	}
	return db, nil
}
