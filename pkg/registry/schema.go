// pkg/registry/schema.go
package registry

// FlowRegistry is the published catalog of AI flow workers.
type FlowRegistry struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Flows       []Flow `json:"flows"`
}

type Flow struct {
	ID           string                 `json:"id"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	Version      string                 `json:"version"`
	TaskType     string                 `json:"taskType"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
	ResultKey    string                 `json:"resultKey"`
	ErrorCodes   []string               `json:"errorCodes"`
	Timeout      string                 `json:"timeout"`
	Retries      int                    `json:"retries"`
	Tags         []string               `json:"tags"`
}
