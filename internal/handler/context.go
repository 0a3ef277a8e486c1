package handler

type ContextKey string

var (
	TimetableCtx ContextKey = "timetable"
)
