package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type TimetableReadyMailData struct {
	JobID       string  `json:"jobID"`
	TimetableID int64   `json:"timetableID"`
	Fitness     float64 `json:"fitness"`
	Violations  int32   `json:"violations"`
	Generations int32   `json:"generations"`
	Termination string  `json:"termination"`
}
