package models

import "time"

// MonitoringRow is the dashboard projection joining a lecture report with
// its course and author, carrying the attendance figures alongside the
// descriptive fields.
type MonitoringRow struct {
	ReportID            string    `db:"report_id" json:"report_id"`
	DateOfLecture       time.Time `db:"date_of_lecture" json:"date_of_lecture"`
	TopicTaught         string    `db:"topic_taught" json:"topic_taught"`
	LearningOutcomes    string    `db:"learning_outcomes" json:"learning_outcomes"`
	ActualNumberPresent int       `db:"actual_number_present" json:"actual_number_present"`
	TotalRegistered     int       `db:"total_registered" json:"total_registered"`
	CourseName          string    `db:"course_name" json:"course_name"`
	ClassName           string    `db:"class_name" json:"class_name"`
	FacultyName         string    `db:"faculty_name" json:"faculty_name"`
	LecturerName        string    `db:"lecturer_name" json:"lecturer_name"`
}
