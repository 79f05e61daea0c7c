package gradebook

import "sync"

// RosterCache is an in-memory mirror of the remote student records.
// Replace swaps the whole snapshot; if two refreshes race, the
// later-completing one wins, even if its data is older.
// ApplyLocalUpdate patches a single record in place.
type RosterCache struct {
	mutex    sync.RWMutex
	students []Student
}

func NewRosterCache() *RosterCache {
	return &RosterCache{}
}

// Get returns a copy of the last successfully fetched snapshot, possibly stale.
func (c *RosterCache) Get() []Student {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	students := make([]Student, len(c.students))
	copy(students, c.students)
	return students
}

// Find returns the cached record for id, if present.
func (c *RosterCache) Find(id string) (Student, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, s := range c.students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

func (c *RosterCache) Replace(students []Student) {
	snapshot := make([]Student, len(students))
	copy(snapshot, students)

	c.mutex.Lock()
	c.students = snapshot
	c.mutex.Unlock()
}

// ApplyLocalUpdate updates the in-memory copy of one record's marks;
// it does not re-fetch. Unknown ids are ignored.
func (c *RosterCache) ApplyLocalUpdate(id string, marks float64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for i := range c.students {
		if c.students[i].ID == id {
			c.students[i].Marks = marks
			return
		}
	}
}
