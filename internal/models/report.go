package models

import "time"

// LectureReport captures a lecture session submitted by a lecturer.
// LecturerName and TotalRegistered are snapshot copies taken at write time
// and never re-derived from the linked entities.
type LectureReport struct {
	ID                      string    `db:"id" json:"id"`
	CourseID                string    `db:"course_id" json:"course_id"`
	FacultyName             string    `db:"faculty_name" json:"faculty_name"`
	ClassName               string    `db:"class_name" json:"class_name"`
	WeekOfReporting         string    `db:"week_of_reporting" json:"week_of_reporting"`
	DateOfLecture           time.Time `db:"date_of_lecture" json:"date_of_lecture"`
	LecturerID              string    `db:"lecturer_id" json:"lecturer_id"`
	LecturerName            string    `db:"lecturer_name" json:"lecturer_name"`
	ActualNumberPresent     int       `db:"actual_number_present" json:"actual_number_present"`
	TotalRegistered         int       `db:"total_registered" json:"total_registered"`
	Venue                   string    `db:"venue" json:"venue"`
	ScheduledLectureTime    string    `db:"scheduled_lecture_time" json:"scheduled_lecture_time"`
	TopicTaught             string    `db:"topic_taught" json:"topic_taught"`
	LearningOutcomes        string    `db:"learning_outcomes" json:"learning_outcomes"`
	LecturerRecommendations string    `db:"lecturer_recommendations" json:"lecturer_recommendations"`
	PRLFeedback             *string   `db:"prl_feedback" json:"prl_feedback,omitempty"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
}

// LectureReportDetail joins a report with its course descriptors.
type LectureReportDetail struct {
	LectureReport
	CourseName        string `db:"course_name" json:"course_name"`
	CourseCode        string `db:"course_code" json:"course_code"`
	CourseClassName   string `db:"course_class_name" json:"course_class_name"`
	CourseFacultyName string `db:"course_faculty_name" json:"course_faculty_name"`
}
