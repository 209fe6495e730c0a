package testutil

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/kundihq/kundi/core/roster"
)

// NewLogger returns a no-op core.Logger for tests.
func NewLogger() *Logger { return &Logger{} }

type Logger struct {
	Errors []string
}

func (l *Logger) Debug(msg string, args ...interface{}) {}
func (l *Logger) Info(msg string, args ...interface{})  {}
func (l *Logger) Warn(msg string, args ...interface{})  {}
func (l *Logger) Error(msg string, args ...interface{}) { l.Errors = append(l.Errors, msg) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.Errors = append(l.Errors, msg) }

// NewPerson builds a raw people record with the given essentials.
func NewPerson(id, name, birthdate string, grade int) roster.Person {
	return roster.Person{
		ID:        id,
		Name:      null.StringFrom(name),
		Birthdate: null.StringFrom(birthdate),
		Grade:     null.IntFrom(grade),
		Child:     null.BoolFrom(true),
	}
}

// NewStudent builds a projected student with derived fields consistent with
// the given grade and expected grade.
func NewStudent(id, name string, grade, expected int) roster.Student {
	return roster.Student{
		ID:        id,
		Name:      name,
		Birthdate: time.Date(2015, time.March, 10, 0, 0, 0, 0, time.UTC),
		Grade:     grade,
		Expected:  expected,
		Delta:     expected - grade,
		IsChild:   true,
	}
}
