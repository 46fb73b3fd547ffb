package models

import "time"

// LectureAssignment links a lecturer to a course. Unique per
// (course_id, lecturer_id) pair.
type LectureAssignment struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	LecturerID string    `db:"lecturer_id" json:"lecturer_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// LectureAssignmentDetail joins the assignment with course and lecturer
// identity for display and pre-deletion audit payloads.
type LectureAssignmentDetail struct {
	ID            string `db:"id" json:"id"`
	CourseID      string `db:"course_id" json:"course_id"`
	LecturerID    string `db:"lecturer_id" json:"lecturer_id"`
	CourseName    string `db:"course_name" json:"course_name"`
	CourseCode    string `db:"course_code" json:"course_code"`
	LecturerName  string `db:"lecturer_name" json:"lecturer_name"`
	LecturerEmail string `db:"lecturer_email" json:"email"`
}
