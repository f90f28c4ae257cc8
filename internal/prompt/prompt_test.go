package prompt

import (
	"strings"
	"testing"

	"mithaq/internal/document"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCoversAllOperations(t *testing.T) {
	types := []document.Type{document.TypeContract, document.TypeLetter, document.TypeAgreement}

	for _, dt := range types {
		spec, err := Generation(dt, "")
		require.NoError(t, err, "generation spec for %s", dt)
		assert.NotEmpty(t, spec.PromptDetails.Title)
		assert.NotEmpty(t, spec.Instructions.CoreDirectives)

		spec, err = Amendment(dt, "body")
		require.NoError(t, err, "amendment spec for %s", dt)
		assert.Equal(t, "body", spec.Input.OriginalDocumentText)

		spec, err = Finalization(dt, "body")
		require.NoError(t, err, "finalization spec for %s", dt)
		assert.Equal(t, "body", spec.Input.OriginalDocumentText)
	}
}

func TestContractVariants(t *testing.T) {
	dyno, err := Generation(document.TypeContract, document.VariantDyno)
	require.NoError(t, err)
	revo, err := Generation(document.TypeContract, document.VariantRevo)
	require.NoError(t, err)

	assert.NotEqual(t, dyno.PromptDetails.Title, revo.PromptDetails.Title)
	assert.NotNil(t, dyno.KnowledgeBase, "deep-synthesis variant carries the template corpus")
	assert.Nil(t, revo.KnowledgeBase, "rapid variant has no template corpus")

	// Empty variant defaults to the deep-synthesis family.
	def, err := Generation(document.TypeContract, "")
	require.NoError(t, err)
	assert.Equal(t, dyno.PromptDetails.Title, def.PromptDetails.Title)
}

func TestGenerationAppendsOneDirective(t *testing.T) {
	base := len(contractDynoSpec.Instructions.CoreDirectives)

	spec, err := Generation(document.TypeContract, document.VariantDyno)
	require.NoError(t, err)

	assert.Len(t, spec.Instructions.CoreDirectives, base+1)
	last := spec.Instructions.CoreDirectives[len(spec.Instructions.CoreDirectives)-1]
	assert.True(t, strings.HasPrefix(last, "**Dynamic Style Directive:**"), "appended directive = %q", last)
}

func TestGenerationDoesNotMutateCatalog(t *testing.T) {
	before := contractDynoSpec.Clone()

	for range 5 {
		_, err := Generation(document.TypeContract, document.VariantDyno)
		require.NoError(t, err)
	}

	if diff := cmp.Diff(before, contractDynoSpec); diff != "" {
		t.Errorf("catalog value mutated (-before +after):\n%s", diff)
	}
}

func TestJudgeBindsOriginalSpecAndCandidate(t *testing.T) {
	orig, err := Generation(document.TypeAgreement, "")
	require.NoError(t, err)

	judge := Judge(orig, "candidate text")

	require.NotNil(t, judge.OriginalSpecification)
	assert.Equal(t, orig.PromptDetails.Title, judge.OriginalSpecification.PromptDetails.Title)
	assert.Equal(t, "candidate text", judge.CandidateDocument)
	assert.Nil(t, judge.ErrorsToCorrect)
}

func TestCorrectionBindsOriginalNotNested(t *testing.T) {
	orig, err := Generation(document.TypeContract, document.VariantRevo)
	require.NoError(t, err)

	errs := []ErrorRecord{{ErrorType: "EmptyCell", Location: "Annex D", Description: "payment row 3 has an empty amount"}}
	corr := Correction(orig, "tables incomplete", errs)

	require.NotNil(t, corr.OriginalGenerationPrompt)
	assert.Equal(t, orig.PromptDetails.Title, corr.OriginalGenerationPrompt.PromptDetails.Title)
	assert.Nil(t, corr.OriginalGenerationPrompt.OriginalGenerationPrompt, "corrections must not nest")
	require.NotNil(t, corr.ErrorsToCorrect)
	assert.Equal(t, "tables incomplete", corr.ErrorsToCorrect.RejectionReason)
	assert.Equal(t, errs, corr.ErrorsToCorrect.SpecificErrors)
}

func TestCloneIsDeep(t *testing.T) {
	orig := contractDynoSpec.Clone()
	clone := orig.Clone()
	clone.Instructions.CoreDirectives[0] = "changed"
	clone.KnowledgeBase.Templates[0].ID = "changed"

	assert.NotEqual(t, "changed", orig.Instructions.CoreDirectives[0])
	assert.NotEqual(t, "changed", orig.KnowledgeBase.Templates[0].ID)
}

func TestJudgeResponseSchemaShape(t *testing.T) {
	schema := JudgeResponseSchema()

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	decision, ok := props["decision"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"APPROVED", "REJECTED"}, decision["enum"])
	assert.Contains(t, schema["required"], "decision")
	assert.Contains(t, schema["required"], "errors")
}

func TestSpecJSONOmitsUnboundFields(t *testing.T) {
	spec, err := Generation(document.TypeLetter, "")
	require.NoError(t, err)

	raw, err := spec.JSON()
	require.NoError(t, err)
	assert.NotContains(t, raw, "originalSpecification")
	assert.NotContains(t, raw, "errorsToCorrect")
	assert.Contains(t, raw, "## الموضوع:")
}
