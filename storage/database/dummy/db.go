// Package dummydb is an in-memory store, used in DEV and tests.
package dummydb

import (
	"sync"

	"github.com/trezcool/marks/core/student"
	"github.com/trezcool/marks/core/user"
)

type (
	DB struct {
		user    *userTable
		student *studentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		order []string // insertion order
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
		order []string // insertion order
	}
)

func Open() *DB {
	return &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		student: &studentTable{table: make(map[string]*student.Student)},
	}
}

// Reset drops every row.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.order = nil
	db.user.Unlock()

	db.student.Lock()
	db.student.table = make(map[string]*student.Student)
	db.student.order = nil
	db.student.Unlock()
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
