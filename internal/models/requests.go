package models

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ── UI requests ─────────────────────────────────────────

type ExamDateRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

type ExamDateResponse struct {
	DaysUntilExam int    `json:"days_until_exam"`
	Text          string `json:"text"`
}

type FileSelectedResponse struct {
	FileName string `json:"file_name"`
	Subtext  string `json:"subtext"`
}

type ToggleTopicRequest struct {
	Checked bool `json:"checked"`
}

type SwitchTabRequest struct {
	Name string `json:"name"`
}

type SelectOptionRequest struct {
	Question int `json:"question"`
	Option   int `json:"option"`
}

type NavigateRequest struct {
	Delta int `json:"delta"`
}

type JumpRequest struct {
	Index int `json:"index"`
}
