package handler

import "github.com/gin-gonic/gin"

// Handlers groups every route handler so main can register them in one call.
type Handlers struct {
	Organisation   *OrganisationHandler
	Department     *DepartmentHandler
	Course         *CourseHandler
	Section        *SectionHandler
	Subject        *SubjectHandler
	Teacher        *TeacherHandler
	SubjectTeacher *SubjectTeacherHandler
	TimeSlot       *TimeSlotHandler
	Timetable      *TimetableHandler
	Metrics        *MetricsHandler
}

// Register mounts all API routes on the engine.
func Register(r *gin.Engine, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	r.GET("/organisations", h.Organisation.List)
	r.POST("/organisations", h.Organisation.Create)
	r.DELETE("/organisations/:id", h.Organisation.Delete)

	r.GET("/departments", h.Department.List)
	r.POST("/departments", h.Department.Create)
	r.DELETE("/departments/:id", h.Department.Delete)

	r.GET("/courses", h.Course.List)
	r.POST("/courses", h.Course.Create)
	r.DELETE("/courses/:id", h.Course.Delete)

	r.GET("/sections", h.Section.List)
	r.POST("/sections", h.Section.Create)

	r.GET("/subjects", h.Subject.List)
	r.POST("/subjects", h.Subject.Create)

	r.GET("/teachers", h.Teacher.List)
	r.POST("/teachers", h.Teacher.Create)

	// Both routes serve the joined view; the -full alias matches older
	// clients that expect it.
	r.GET("/subject-teachers", h.SubjectTeacher.List)
	r.GET("/subject-teachers-full", h.SubjectTeacher.List)
	r.POST("/subject-teachers", h.SubjectTeacher.Create)

	r.GET("/time-slots", h.TimeSlot.List)
	r.POST("/time-slots", h.TimeSlot.Create)

	r.POST("/timetable", h.Timetable.Create)
	r.PUT("/timetable/:id", h.Timetable.Update)
	r.DELETE("/timetable/:id", h.Timetable.Delete)
	r.GET("/timetable/full", h.Timetable.Full)
	r.GET("/timetable/section/:sectionId", h.Timetable.ListBySection)
	r.GET("/timetable/section/:sectionId/export", h.Timetable.ExportSection)
}
