package meetingnotes

type Input struct {
	Transcript   string   `json:"transcript"`
	MeetingTitle string   `json:"meetingTitle,omitempty"`
	Participants []string `json:"participants,omitempty"`
}

type ActionItem struct {
	Owner   string `json:"owner"`
	Task    string `json:"task"`
	DueDate string `json:"dueDate"`
}

// Notes is the structured meeting summary. Models often send followUpNotes
// as a list; it is joined into one string before decoding.
type Notes struct {
	Summary         string       `json:"summary"`
	KeyDecisions    []string     `json:"keyDecisions"`
	ActionItems     []ActionItem `json:"actionItems"`
	RisksOrConcerns []string     `json:"risksOrConcerns"`
	FollowUpNotes   string       `json:"followUpNotes"`
}

type Output struct {
	Notes  Notes  `json:"meetingNotes"`
	Source string `json:"meetingNotesSource"`
}
