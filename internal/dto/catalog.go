package dto

import "time"

// DepartmentDetail joins a department with its organisation name.
type DepartmentDetail struct {
	DepartmentID     int64  `db:"department_id" json:"department_id"`
	OrganisationID   int64  `db:"organisation_id" json:"organisation_id"`
	OrganisationName string `db:"organisation_name" json:"organisation_name"`
	Name             string `db:"name" json:"name"`
}

// CourseDetail joins a course with its department name.
type CourseDetail struct {
	CourseID       int64  `db:"course_id" json:"course_id"`
	DepartmentID   int64  `db:"department_id" json:"department_id"`
	DepartmentName string `db:"department_name" json:"department_name"`
	Name           string `db:"name" json:"name"`
	Code           string `db:"code" json:"code"`
	DurationYears  int    `db:"duration_years" json:"duration_years"`
}

// SectionDetail joins a section with its course name for dropdowns.
type SectionDetail struct {
	SectionID  int64  `db:"section_id" json:"section_id"`
	CourseID   int64  `db:"course_id" json:"course_id"`
	CourseName string `db:"course_name" json:"course_name"`
	Name       string `db:"name" json:"name"`
	Semester   int    `db:"semester" json:"semester"`
}

// TeacherDetail joins a teacher with its department name.
type TeacherDetail struct {
	TeacherID      int64  `db:"teacher_id" json:"teacher_id"`
	DepartmentID   int64  `db:"department_id" json:"department_id"`
	DepartmentName string `db:"department_name" json:"department_name"`
	Name           string `db:"name" json:"name"`
}

// SubjectTeacherDetail is the denormalized pairing used by timetable entry
// forms. Served by both /subject-teachers and /subject-teachers-full.
type SubjectTeacherDetail struct {
	SubjectTeacherID int64     `db:"subject_teacher_id" json:"subject_teacher_id"`
	SubjectID        int64     `db:"subject_id" json:"subject_id"`
	SubjectName      string    `db:"subject_name" json:"subject_name"`
	Semester         int       `db:"semester" json:"semester"`
	TeacherID        int64     `db:"teacher_id" json:"teacher_id"`
	TeacherName      string    `db:"teacher_name" json:"teacher_name"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
