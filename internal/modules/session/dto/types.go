package dto

type RunInput struct {
	Title  string
	Labels string
}

type RunOutput struct {
	RunID   string
	Session SessionOutput
	// Total is the history length after the session was logged.
	Total int
}

type SessionOutput struct {
	Title  string
	Labels []string
	Date   string
	Time   string
}

type ReportInput struct {
	Labels string
	// EachMatch counts a session once per requested label it carries instead
	// of once overall.
	EachMatch bool
}

type StatusOutput struct {
	Today        string
	TotalCount   int
	TotalHours   int
	TotalMinutes int
	TodayCount   int
	TodayHours   int
	TodayMinutes int
	Tier         string
}

type LogOutput struct {
	Status   StatusOutput
	Sessions []SessionOutput
}

type LabelOutput struct {
	Label      string
	Count      int
	TodayCount int
	Hours      int
	Minutes    int
}

type ExportInput struct {
	Dir string
}

type ExportOutput struct {
	Dir       string
	Notes     int
	IndexPath string
}
