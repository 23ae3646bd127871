package diyfixguide

// Input is the job payload for a DIY repair guide.
type Input struct {
	IssueDescription string   `json:"issueDescription"`
	LocationContext  string   `json:"locationContext"`
	SkillLevel       string   `json:"skillLevel"`
	ToolsAvailable   []string `json:"toolsAvailable,omitempty"`
	Constraints      string   `json:"constraints,omitempty"`
}

type Tool struct {
	Name        string `json:"name"`
	Optional    bool   `json:"optional"`
	Alternative string `json:"alternative,omitempty"`
}

type Step struct {
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Caution string `json:"caution"`
}

type TroubleshootingTip struct {
	Symptom string `json:"symptom"`
	Fix     string `json:"fix"`
}

// Guide is the structured repair plan returned to the process.
type Guide struct {
	Overview               string               `json:"overview"`
	Difficulty             string               `json:"difficulty"`
	EstimatedTime          string               `json:"estimatedTime"`
	SafetyGear             []string             `json:"safetyGear"`
	RequiredTools          []Tool               `json:"requiredTools"`
	Materials              []string             `json:"materials"`
	Preparation            []string             `json:"preparation"`
	StepByStep             []Step               `json:"stepByStep"`
	ValidationChecks       []string             `json:"validationChecks"`
	Troubleshooting        []TroubleshootingTip `json:"troubleshooting"`
	WhenToCallProfessional []string             `json:"whenToCallProfessional"`
	CleanupAndMaintenance  []string             `json:"cleanupAndMaintenance"`
}

// Output is written back as job variables.
type Output struct {
	Guide  Guide  `json:"diyFixGuide"`
	Source string `json:"diyFixGuideSource"`
}
