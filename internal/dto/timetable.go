package dto

// TimetableRow is the denormalized read model for schedule views: every
// foreign reference resolved to its display name plus the slot day/time.
type TimetableRow struct {
	TimetableID      int64  `db:"timetable_id" json:"timetable_id"`
	SectionID        int64  `db:"section_id" json:"section_id"`
	SectionName      string `db:"section_name" json:"section_name"`
	SubjectTeacherID int64  `db:"subject_teacher_id" json:"subject_teacher_id"`
	SubjectName      string `db:"subject_name" json:"subject_name"`
	TeacherName      string `db:"teacher_name" json:"teacher_name"`
	SlotID           int64  `db:"slot_id" json:"slot_id"`
	DayOfWeek        string `db:"day_of_week" json:"day_of_week"`
	StartTime        string `db:"start_time" json:"start_time"`
	EndTime          string `db:"end_time" json:"end_time"`
	RoomNo           string `db:"room_no" json:"room_no"`
}
