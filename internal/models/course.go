package models

import "time"

// Course represents a taught course owned by a faculty.
type Course struct {
	ID              string    `db:"id" json:"id"`
	FacultyName     string    `db:"faculty_name" json:"faculty_name"`
	ClassName       string    `db:"class_name" json:"class_name"`
	CourseName      string    `db:"course_name" json:"course_name"`
	CourseCode      string    `db:"course_code" json:"course_code"`
	Venue           string    `db:"venue" json:"venue"`
	ScheduledTime   string    `db:"scheduled_time" json:"scheduled_time"`
	TotalRegistered int       `db:"total_registered" json:"total_registered"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CourseWithLecturers is the program-leader projection of a course: the
// assigned lecturer names folded into one comma-separated string, sorted
// by name for determinism.
type CourseWithLecturers struct {
	Course
	Lecturers string `db:"lecturers" json:"lecturers"`
}
