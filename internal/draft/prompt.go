// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"fmt"
	"strings"

	"github.com/pdiddy/post-engine/pkg/types"
)

// SystemPrompt is the master instruction set for every draft call.
const SystemPrompt = `You are an elite ghostwriter for professional social media. Your posts earn engagement, followers and shares without sacrificing truth.

**HOOK (first line, mandatory):**
Pick ONE hook type that fits the material: Shock/Surprise, Contrarian, Pattern Interrupt, Curiosity Gap, Social Proof, Vulnerability, Urgency, Data-Driven.
The hook must be under 15 words and make the reader want the next line.
Never use a Data-Driven hook unless the input context contains real data.

**ENGAGEMENT:**
- A direct question or bold statement within the first 3 lines
- "You" language throughout
- Specific, actionable value in the middle
- A clear call to action at the end (comment, share, save, follow)

**FORMATTING:**
- Line breaks every 2 to 3 lines, short paragraphs
- Bullet symbols for lists (• → ↳ ✓)
- 1 to 2 emojis at most
- 3 to 5 relevant hashtags at the very end

**WORD COUNT:**
The target is given as TARGET_WORD_COUNT. Stay within ±10% of it.

**TRUTH RULES (non-negotiable):**
1. NO INVENTED DATA. Do not invent statistics, dollar values, percentages or case-study results. Use numbers only when they appear in the input. Otherwise describe qualitatively ("significant growth", not "300% growth").
2. TRUE ATTRIBUTION. Do not attribute quotes or results to people or companies unless the context provides them.
3. NO EM-DASHES. Use commas, periods or colons.
4. Vary sentence structure. Avoid repetitive patterns.
5. OUTPUT READY. No conversational filler before or after the post.

Produce the post directly, ready to copy and paste.`

// StandardStructure is the directive used when creativity is low.
const StandardStructure = "Standard Professional Flow"

// Structures is the catalog of structural directives rotated between drafts
// so consecutive posts do not share a shape.
var Structures = []string{
	"RHYTHM: Staccato. Use very short, punchy sentences. Minimize conjunctions. Rapid-fire delivery.",
	"RHYTHM: Melodic. Use varied sentence lengths. Connect ideas smoothly with transitions (e.g., 'However', 'Consequently').",
	"STRUCTURE: The Loop. Open with a micro-story or analogy, switch to hard analysis, then close by referencing the initial story.",
	"STRUCTURE: Inverted Pyramid. Start with the single most striking fact from the context. Explain the 'Why'. End with the 'What now'.",
	"STYLE: Socratic. Use unexpected questions to guide the reader. Make them think before giving the answer.",
	"STYLE: The Devil's Advocate. Anticipate the reader's skepticism. Phrase as 'You might think X, but actually Y'.",
	"FORMAT: Axiomatic. Use bold, definitive statements as headers (e.g., '1. Chaos is Opportunity').",
}

// Creativity thresholds.
const (
	conservativeBelow = 0.4
	experimentalAbove = 0.8
)

var engagementTiers = map[types.EngagementLevel]string{
	types.EngagementLow:    "Focus on value delivery, minimal controversy",
	types.EngagementMedium: "Include 2 engagement triggers, moderate controversy",
	types.EngagementHigh:   "Maximum viral potential - use controversial hook, 3+ engagement triggers, bold stance",
}

// EngagementTier returns the instruction for an engagement level. Unknown
// levels get the Medium instruction.
func EngagementTier(level types.EngagementLevel) string {
	if s, ok := engagementTiers[level]; ok {
		return s
	}
	return engagementTiers[types.EngagementMedium]
}

// CreativityLabel describes a creativity setting in words.
func CreativityLabel(creativity float64) string {
	switch {
	case creativity < conservativeBelow:
		return "Conservative, Strict, Professional"
	case creativity > experimentalAbove:
		return "Highly Creative, Experimental, Unique"
	default:
		return "Balanced"
	}
}

// Inputs is everything the user prompt is built from.
type Inputs struct {
	Request   types.GenerationRequest
	Research  string
	Insights  string
	Structure string
}

// UserPrompt renders the per-request prompt.
func UserPrompt(in Inputs) string {
	req := in.Request
	var b strings.Builder

	if style := strings.TrimSpace(req.StyleOverride); style != "" {
		fmt.Fprintf(&b, "**STYLE OVERRIDE (ABSOLUTE PRIORITY):**\n%s\nThis instruction overrides every other stylistic rule in this prompt and the system prompt, except the truth rules.\n\n", style)
	}

	b.WriteString("**User Input Parameters:**\n")
	fmt.Fprintf(&b, "*   `TOPIC`: %s\n", req.Topic)
	fmt.Fprintf(&b, "*   `LATEST_NEWS_AND_STATS`: %s\n", orDefault(in.Research, "No specific news data available"))
	fmt.Fprintf(&b, "*   `KEY_INSIGHTS`: %s\n", orDefault(in.Insights, "None"))
	fmt.Fprintf(&b, "*   `CUSTOM_CONTENT`: %s\n", orDefault(req.CustomContent, "No custom content provided"))
	fmt.Fprintf(&b, "*   `TONE`: %s\n", req.Tone)
	fmt.Fprintf(&b, "*   `CONTENT_TYPE`: %s\n", joinOr(req.Formats, "General"))
	fmt.Fprintf(&b, "*   `TARGET_WORD_COUNT`: %d words (±10%% acceptable)\n", req.TargetWords)
	fmt.Fprintf(&b, "*   `ENGAGEMENT_LEVEL`: %s - %s\n", req.Engagement, EngagementTier(req.Engagement))
	fmt.Fprintf(&b, "*   `NARRATIVE_PATTERNS`: %s\n", joinOr(req.NarrativePatterns, "None"))
	fmt.Fprintf(&b, "*   `CREATIVITY_SETTING`: %s (Temp: %.2f)\n", CreativityLabel(req.Creativity), req.Creativity)

	fmt.Fprintf(&b, "\n**STRUCTURAL DNA:**\n> **%s**\n> *Apply this structural pattern to make the post distinct.*\n", in.Structure)

	fmt.Fprintf(&b, `
**INSTRUCTIONS:**
1. Open with the hook type that best fits the material.
2. Use one proven structure: Failure to Success Arc, Myth Buster, Framework/System, or Listicle with Insights.
3. Include at least 2 engagement triggers and the psychological triggers the material supports.
4. Write exactly in the %s persona.
5. Target %d WORDS (not characters).
6. Every number in the post must appear in LATEST_NEWS_AND_STATS, KEY_INSIGHTS or CUSTOM_CONTENT.

Generate the post now.`, req.Tone, req.TargetWords)

	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func joinOr(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}
