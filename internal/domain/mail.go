package domain

const (
	MailTypeWelcome         = "welcome"
	MailTypeScheduleCreated = "schedule_created"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type WelcomeMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ScheduleCreatedMailData struct {
	FullName  string `json:"fullName"`
	Kind      string `json:"kind"` // main 或 sub
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}
