// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"toolbox-ai/internal/common/errors"
	"toolbox-ai/internal/common/validation"
	diyfixguide "toolbox-ai/internal/flows/diy-fix-guide"
	meetingnotes "toolbox-ai/internal/flows/meeting-notes"
	smartshoppinglist "toolbox-ai/internal/flows/smart-shopping-list"

	"github.com/xeipuuv/gojsonschema"
)

const CatalogVersion = "1.0.0"

// flowErrorCodes are the codes a flow job can fail with. Model failures
// never surface; they degrade to the fallback result.
var flowErrorCodes = []errors.ErrorCode{
	errors.ErrCodeInvalidInput,
	errors.ErrCodeInvalidFallback,
}

// Default builds the catalog from the flow packages compiled into this binary.
func Default() (*FlowRegistry, error) {
	specs := []struct {
		id, name, description, category, taskType, resultKey string
		timeout                                              time.Duration
		input, output                                        validation.JSONSchema
		tags                                                 []string
	}{
		{
			id:          diyfixguide.FlowName,
			name:        "DIY Fix Guide",
			description: "Step-by-step home repair guide with safety checks and a category fallback plan",
			category:    "home",
			taskType:    diyfixguide.TaskType,
			resultKey:   "diyFixGuide",
			timeout:     diyfixguide.DefaultConfig().Timeout,
			input:       diyfixguide.GetInputSchema(),
			output:      diyfixguide.GetOutputSchema(),
			tags:        []string{"ai", "repair"},
		},
		{
			id:          smartshoppinglist.FlowName,
			name:        "Smart Shopping List",
			description: "Weekly grocery plan localized to the requested currency and region",
			category:    "household",
			taskType:    smartshoppinglist.TaskType,
			resultKey:   "smartShoppingList",
			timeout:     smartshoppinglist.DefaultConfig().Timeout,
			input:       smartshoppinglist.GetInputSchema(),
			output:      smartshoppinglist.GetOutputSchema(),
			tags:        []string{"ai", "groceries", "pricing"},
		},
		{
			id:          meetingnotes.FlowName,
			name:        "Meeting Notes",
			description: "Structured meeting summary with decisions, owners and follow-ups",
			category:    "productivity",
			taskType:    meetingnotes.TaskType,
			resultKey:   "meetingNotes",
			timeout:     meetingnotes.DefaultConfig().Timeout,
			input:       meetingnotes.GetInputSchema(),
			output:      meetingnotes.GetOutputSchema(),
			tags:        []string{"ai", "summaries"},
		},
	}

	codes := make([]string, len(flowErrorCodes))
	retries := 0
	for i, code := range flowErrorCodes {
		codes[i] = string(code)
		if n := errors.GetRetryCount(code); n > retries {
			retries = n
		}
	}

	reg := &FlowRegistry{
		Version:     CatalogVersion,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
	for _, s := range specs {
		input, err := schemaDocument(s.input)
		if err != nil {
			return nil, fmt.Errorf("flow %s: %w", s.id, err)
		}
		output, err := schemaDocument(s.output)
		if err != nil {
			return nil, fmt.Errorf("flow %s: %w", s.id, err)
		}
		reg.Flows = append(reg.Flows, Flow{
			ID:           s.id,
			DisplayName:  s.name,
			Description:  s.description,
			Category:     s.category,
			Version:      CatalogVersion,
			TaskType:     s.taskType,
			InputSchema:  input,
			OutputSchema: output,
			ResultKey:    s.resultKey,
			ErrorCodes:   codes,
			Timeout:      s.timeout.String(),
			Retries:      retries,
			Tags:         s.tags,
		})
	}
	return reg, nil
}

func schemaDocument(schema validation.JSONSchema) (map[string]interface{}, error) {
	doc, err := validation.ToDocument(schema)
	if err != nil {
		return nil, err
	}
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("schema is not an object")
	}
	return obj, nil
}

func LoadRegistry(path string) (*FlowRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg FlowRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

func SaveRegistry(reg *FlowRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Validate checks the catalog is usable by the process designers: required
// fields present, ids and task types unique, every schema compiles.
func Validate(reg *FlowRegistry) error {
	if len(reg.Flows) == 0 {
		return errors.NewCatalogInvalidError("registry contains no flows")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, flow := range reg.Flows {
		switch {
		case flow.ID == "":
			return errors.NewCatalogInvalidError("flow missing required field: id")
		case flow.DisplayName == "":
			return errors.NewCatalogInvalidError(fmt.Sprintf("flow %s missing required field: displayName", flow.ID))
		case flow.TaskType == "":
			return errors.NewCatalogInvalidError(fmt.Sprintf("flow %s missing required field: taskType", flow.ID))
		case flow.Category == "":
			return errors.NewCatalogInvalidError(fmt.Sprintf("flow %s missing required field: category", flow.ID))
		}

		if ids[flow.ID] {
			return errors.NewCatalogInvalidError(fmt.Sprintf("duplicate flow id: %s", flow.ID))
		}
		ids[flow.ID] = true
		if taskTypes[flow.TaskType] {
			return errors.NewCatalogInvalidError(fmt.Sprintf("duplicate task type: %s", flow.TaskType))
		}
		taskTypes[flow.TaskType] = true

		for name, schema := range map[string]map[string]interface{}{"inputSchema": flow.InputSchema, "outputSchema": flow.OutputSchema} {
			if len(schema) == 0 {
				return errors.NewCatalogInvalidError(fmt.Sprintf("flow %s has an empty %s", flow.ID, name))
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				return errors.NewCatalogInvalidError(fmt.Sprintf("flow %s %s does not compile: %v", flow.ID, name, err))
			}
		}
	}
	return nil
}
