// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/internal/gateway/gatewaytest"
	"github.com/pdiddy/post-engine/pkg/types"
)

// fixedChooser always returns the same index and counts calls.
type fixedChooser struct {
	index int
	calls int
}

func (f *fixedChooser) IntN(n int) int {
	f.calls++
	return f.index % n
}

func testRequest() types.GenerationRequest {
	return types.GenerationRequest{
		Topic:             "AI in healthcare",
		Tone:              "Practical Educator",
		Formats:           []string{"Tactical Guide", "Case Study"},
		TargetWords:       300,
		Engagement:        types.EngagementHigh,
		NarrativePatterns: []string{"Storytelling Arc"},
		Creativity:        0.7,
		Region:            types.RegionGlobal,
	}
}

func TestCreativityLabel(t *testing.T) {
	tests := []struct {
		creativity float64
		want       string
	}{
		{0.0, "Conservative, Strict, Professional"},
		{0.39, "Conservative, Strict, Professional"},
		{0.4, "Balanced"},
		{0.8, "Balanced"},
		{0.81, "Highly Creative, Experimental, Unique"},
		{1.0, "Highly Creative, Experimental, Unique"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CreativityLabel(tt.creativity), "creativity %.2f", tt.creativity)
	}
}

func TestEngagementTier(t *testing.T) {
	assert.Equal(t, "Focus on value delivery, minimal controversy", EngagementTier(types.EngagementLow))
	assert.Equal(t, "Include 2 engagement triggers, moderate controversy", EngagementTier(types.EngagementMedium))
	assert.Contains(t, EngagementTier(types.EngagementHigh), "Maximum viral potential")
	assert.Equal(t, EngagementTier(types.EngagementMedium), EngagementTier("Extreme"))
}

func TestPickStructure(t *testing.T) {
	t.Run("low creativity is standard", func(t *testing.T) {
		c := &fixedChooser{index: 3}
		g := New(gatewaytest.New(), nil, WithChooser(c))
		assert.Equal(t, StandardStructure, g.PickStructure(0.2))
		assert.Zero(t, c.calls)
	})
	t.Run("threshold uses catalog", func(t *testing.T) {
		c := &fixedChooser{index: 3}
		g := New(gatewaytest.New(), nil, WithChooser(c))
		assert.Equal(t, Structures[3], g.PickStructure(0.4))
		assert.Equal(t, 1, c.calls)
	})
	t.Run("seeded chooser is repeatable", func(t *testing.T) {
		a := New(gatewaytest.New(), nil, WithChooser(NewSeededChooser(42)))
		b := New(gatewaytest.New(), nil, WithChooser(NewSeededChooser(42)))
		for range 5 {
			assert.Equal(t, a.PickStructure(0.9), b.PickStructure(0.9))
		}
	})
	t.Run("catalog size", func(t *testing.T) {
		assert.Len(t, Structures, 7)
	})
}

func TestUserPrompt(t *testing.T) {
	req := testRequest()
	req.CustomContent = "I ran a pilot at my clinic."
	p := UserPrompt(Inputs{
		Request:   req,
		Research:  "- Hospitals adopt AI (Wire)",
		Insights:  "Adoption is rising",
		Structure: Structures[0],
	})

	for _, want := range []string{
		"`TOPIC`: AI in healthcare",
		"`LATEST_NEWS_AND_STATS`: - Hospitals adopt AI (Wire)",
		"`KEY_INSIGHTS`: Adoption is rising",
		"`CUSTOM_CONTENT`: I ran a pilot at my clinic.",
		"`TONE`: Practical Educator",
		"`CONTENT_TYPE`: Tactical Guide, Case Study",
		"`TARGET_WORD_COUNT`: 300 words (±10% acceptable)",
		"`ENGAGEMENT_LEVEL`: High - Maximum viral potential",
		"`NARRATIVE_PATTERNS`: Storytelling Arc",
		"`CREATIVITY_SETTING`: Balanced (Temp: 0.70)",
		Structures[0],
	} {
		assert.Contains(t, p, want)
	}
	assert.NotContains(t, p, "STYLE OVERRIDE")
}

func TestUserPrompt_Defaults(t *testing.T) {
	req := testRequest()
	req.Formats = nil
	req.NarrativePatterns = nil
	p := UserPrompt(Inputs{Request: req, Structure: StandardStructure})

	assert.Contains(t, p, "`LATEST_NEWS_AND_STATS`: No specific news data available")
	assert.Contains(t, p, "`CUSTOM_CONTENT`: No custom content provided")
	assert.Contains(t, p, "`CONTENT_TYPE`: General")
	assert.Contains(t, p, "`NARRATIVE_PATTERNS`: None")
}

func TestUserPrompt_StyleOverrideFirst(t *testing.T) {
	req := testRequest()
	req.StyleOverride = "Write in lowercase only."
	p := UserPrompt(Inputs{Request: req, Structure: StandardStructure})

	require.True(t, strings.HasPrefix(p, "**STYLE OVERRIDE (ABSOLUTE PRIORITY):**"))
	assert.Contains(t, p, "Write in lowercase only.")
}

func TestGenerate(t *testing.T) {
	gen := gatewaytest.New(gatewaytest.OK("Hook line.\n\nBody."))
	g := New(gen, nil, WithChooser(&fixedChooser{index: 1}))

	out, err := g.Generate(context.Background(), testRequest(), "- news", "insights")
	require.NoError(t, err)
	assert.Equal(t, "Hook line.\n\nBody.", out)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	c := calls[0]
	assert.Equal(t, SystemPrompt, c.System)
	assert.Equal(t, 600, c.MaxTokens)
	assert.InDelta(t, 0.7, c.Temperature, 1e-9)
	assert.InDelta(t, 0.9, c.TopP, 1e-9)
	assert.InDelta(t, 0.5, c.FrequencyPenalty, 1e-9)
	assert.InDelta(t, 0.5, c.PresencePenalty, 1e-9)
	assert.Contains(t, c.User, Structures[1])
}

func TestGenerate_AllCandidatesFail(t *testing.T) {
	failing := gateway.GeneratorFunc(func(context.Context, types.ModelCallParameters) (string, error) {
		return "", gateway.ErrAllCandidatesFailed
	})
	_, err := New(failing, nil).Generate(context.Background(), testRequest(), "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDraftFailed)
	assert.ErrorIs(t, err, gateway.ErrAllCandidatesFailed)
}

func TestGenerate_SucceedsWhenAnyCandidateDoes(t *testing.T) {
	for _, creativity := range []float64{0, 0.3, 0.5, 0.9, 1} {
		req := testRequest()
		req.Creativity = creativity
		gen := gatewaytest.New(gatewaytest.OK("post"))
		_, err := New(gen, nil).Generate(context.Background(), req, "", "")
		assert.NoError(t, err, "creativity %.1f", creativity)
	}
}
