// Package prompt holds the catalog of structured prompt specifications driving
// document generation, amendment, finalization, judging, and correction. A
// specification is a typed object serialized whole into the model request; the
// structure itself is part of the instruction, not just the prose inside it.
package prompt

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"mithaq/internal/document"
)

// ============================================================================
// SPECIFICATION STRUCTURE
// ============================================================================

// Details identifies a specification and states its objective.
type Details struct {
	Title     string `json:"title"`
	Version   string `json:"version"`
	Objective string `json:"objective"`
}

// Instructions frame the model's role and carry the ordered mandatory
// directives.
type Instructions struct {
	RoleAndContext string   `json:"roleAndContext"`
	CoreDirectives []string `json:"coreDirectives"`
}

// Checklist is the machine-checkable self-review the model must run before
// responding.
type Checklist struct {
	Description string   `json:"description"`
	Rules       []string `json:"rules"`
}

// TemplateClause names one key clause of a knowledge-base template.
type TemplateClause struct {
	ClauseName  string `json:"clauseName"`
	Description string `json:"description"`
}

// Template is one archetype in the knowledge base the model draws structure
// and terminology from.
type Template struct {
	ID               string           `json:"id"`
	SourceFileName   string           `json:"sourceFileName"`
	Type             string           `json:"type"`
	KeyTerminology   []string         `json:"keyTerminology"`
	StructuralNotes  string           `json:"structuralNotes"`
	KeyClauses       []TemplateClause `json:"keyClauses,omitempty"`
	UniqueMechanisms string           `json:"uniqueMechanisms,omitempty"`
}

// KnowledgeBase seeds structural variety across generations.
type KnowledgeBase struct {
	Description string     `json:"description"`
	Templates   []Template `json:"templates"`
}

// VariableStep is one step of the variable-generation plan.
type VariableStep struct {
	Step        int    `json:"step"`
	Action      string `json:"action"`
	Instruction string `json:"instruction"`
}

// VariablePlan tells the model which unique values to invent.
type VariablePlan struct {
	Description string         `json:"description"`
	Steps       []VariableStep `json:"steps"`
}

// SectionRule is one per-section content rule.
type SectionRule struct {
	Section     string `json:"section"`
	Instruction string `json:"instruction"`
}

// StructureRules govern the document's overall shape.
type StructureRules struct {
	Rules []string `json:"rules"`
}

// ContentRules govern individual sections.
type ContentRules struct {
	Rules []SectionRule `json:"rules"`
}

// GenerationLogic bundles structure and content rules.
type GenerationLogic struct {
	Description string         `json:"description"`
	Structure   StructureRules `json:"structure"`
	Content     ContentRules   `json:"content"`
}

// OutputFormat is the output contract the model must honor.
type OutputFormat struct {
	FinalOutputFormat string `json:"finalOutputFormat"`
	Description       string `json:"description"`
	Language          string `json:"language"`
	Styling           string `json:"styling,omitempty"`
	FinalNote         string `json:"finalNote,omitempty"`
}

// Input is the designated binding slot for caller-supplied text, filled
// exactly once before submission.
type Input struct {
	Description          string `json:"description"`
	VariableName         string `json:"variableName"`
	OriginalDocumentText string `json:"originalDocumentText,omitempty"`
}

// ErrorRecord is one itemized defect from a judge verdict, echoed back into
// the correction prompt.
type ErrorRecord struct {
	ErrorType   string `json:"errorType"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// ErrorsToCorrect binds a rejection verdict into a correction prompt.
type ErrorsToCorrect struct {
	RejectionReason string        `json:"rejectionReason"`
	SpecificErrors  []ErrorRecord `json:"specificErrors"`
}

// Spec is one complete prompt specification. Generation specs populate the
// catalog fields; judge and correction specs are built at call time and
// populate the binding fields instead.
type Spec struct {
	PromptDetails             Details          `json:"promptDetails"`
	Instructions              Instructions     `json:"instructions"`
	SelfChecklist             *Checklist       `json:"selfChecklist,omitempty"`
	KnowledgeBase             *KnowledgeBase   `json:"knowledgeBase,omitempty"`
	DynamicVariableGeneration *VariablePlan    `json:"dynamicVariableGeneration,omitempty"`
	GenerationLogic           *GenerationLogic `json:"generationLogic,omitempty"`
	OutputFormatting          *OutputFormat    `json:"outputFormatting,omitempty"`
	Input                     *Input           `json:"input,omitempty"`

	// Judge bindings.
	OriginalSpecification *Spec  `json:"originalSpecification,omitempty"`
	CandidateDocument     string `json:"candidateDocument,omitempty"`

	// Correction bindings.
	OriginalGenerationPrompt *Spec            `json:"originalGenerationPrompt,omitempty"`
	ErrorsToCorrect          *ErrorsToCorrect `json:"errorsToCorrect,omitempty"`
}

// Clone returns a deep copy via a JSON round-trip, so callers can bind inputs
// and inject directives without mutating the catalog value.
func (s *Spec) Clone() *Spec {
	raw, err := json.Marshal(s)
	if err != nil {
		// Specs are plain data with no cycles or unsupported types.
		panic(fmt.Sprintf("prompt: spec marshal failed: %v", err))
	}
	var out Spec
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("prompt: spec unmarshal failed: %v", err))
	}
	return &out
}

// JSON serializes the specification for transport.
func (s *Spec) JSON() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("serializing prompt spec %q: %w", s.PromptDetails.Title, err)
	}
	return string(raw), nil
}

// ============================================================================
// CATALOG LOOKUP
// ============================================================================

type catalogKey struct {
	op      document.Operation
	docType document.Type
	variant document.PromptVariant
}

// Generation selects the generation specification for a new document of the
// given type and variant, returning a fresh copy with one randomly chosen
// formatting directive appended to its core directives. The catalog value is
// never mutated.
func Generation(docType document.Type, variant document.PromptVariant) (*Spec, error) {
	if docType != document.TypeContract {
		// Only contracts ship two prompt families.
		variant = ""
	} else if variant == "" {
		variant = document.VariantDyno
	}
	base, ok := catalog[catalogKey{document.OpNew, docType, variant}]
	if !ok {
		return nil, fmt.Errorf("no generation prompt for type %q variant %q", docType, variant)
	}
	spec := base.Clone()
	d := formattingDirectives[rand.IntN(len(formattingDirectives))]
	spec.Instructions.CoreDirectives = append(spec.Instructions.CoreDirectives, d)
	return spec, nil
}

// Amendment selects the amendment specification for the type and binds the
// original document text into its input slot.
func Amendment(docType document.Type, original string) (*Spec, error) {
	return bound(document.OpVersion, docType, original)
}

// Finalization selects the finalization specification for the type and binds
// the document text being closed out.
func Finalization(docType document.Type, original string) (*Spec, error) {
	return bound(document.OpFinal, docType, original)
}

func bound(op document.Operation, docType document.Type, original string) (*Spec, error) {
	base, ok := catalog[catalogKey{op, docType, ""}]
	if !ok {
		return nil, fmt.Errorf("no %s prompt for type %q", op, docType)
	}
	spec := base.Clone()
	spec.Input.OriginalDocumentText = original
	return spec, nil
}

// Judge builds the verdict specification for one candidate document. The
// original generation specification is bound as ground truth so the rubric
// cannot drift across correction retries.
func Judge(original *Spec, candidate string) *Spec {
	spec := judgeBase.Clone()
	spec.OriginalSpecification = original.Clone()
	spec.CandidateDocument = candidate
	return spec
}

// Correction builds the retry specification from the judge's rejection. It
// always binds the original generation specification, never a previous
// correction, so corrections do not nest.
func Correction(original *Spec, rejectionReason string, specificErrors []ErrorRecord) *Spec {
	spec := correctionBase.Clone()
	spec.OriginalGenerationPrompt = original.Clone()
	spec.ErrorsToCorrect = &ErrorsToCorrect{
		RejectionReason: rejectionReason,
		SpecificErrors:  specificErrors,
	}
	return spec
}

// JudgeResponseSchema is the strict JSON schema the gateway asks the model to
// honor for judge calls.
func JudgeResponseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"decision": map[string]any{
				"type": "string",
				"enum": []string{"APPROVED", "REJECTED"},
			},
			"reason": map[string]any{"type": "string"},
			"errors": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"errorType":   map[string]any{"type": "string"},
						"location":    map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
					"required": []string{"errorType", "location", "description"},
				},
			},
		},
		"required": []string{"decision", "reason", "errors"},
	}
}
