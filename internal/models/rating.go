package models

import "time"

// Rating is a student's score for a course. Append-only from the
// student's perspective.
type Rating struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Score     int       `db:"score" json:"score"`
	Feedback  string    `db:"feedback" json:"feedback"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RatingDetail joins a rating with course and student context.
type RatingDetail struct {
	Rating
	CourseName  string `db:"course_name" json:"course_name"`
	ClassName   string `db:"class_name" json:"class_name"`
	FacultyName string `db:"faculty_name" json:"faculty_name"`
	StudentName string `db:"student_name" json:"student_name,omitempty"`
}
