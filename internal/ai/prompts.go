package ai

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/gousero-sin/LifeLogAi/internal/model"
)

const notInformed = "not informed"

const basePrompt = `You are LifeLog AI, an empathetic personal assistant that helps people understand their lives through journaling.

Your role is to:
- Be welcoming and non-judgmental
- Offer personalized insights grounded in the user's real data
- Turn observations into practical, actionable steps
- Respect the user's privacy and vulnerability

IMPORTANT: Always answer with valid JSON only.`

var depthInstructions = map[string]string{
	model.DepthShallow: `
Mode: BRIEF
- Keep the summary to 2-3 short sentences
- Suggest 1-2 simple actions
- Be direct and objective; brevity is expected`,
	model.DepthMedium: `
Mode: BALANCED
- Give a moderate analysis (4-6 sentences)
- Identify 2-3 relevant patterns
- Suggest 2-3 practical actions
- Include emotional observations when relevant`,
	model.DepthDeep: `
Mode: DEEP
- Give a detailed, reflective analysis
- Explore the day from multiple angles and connect different areas of life
- Ask questions that encourage self-knowledge
- Suggest multiple actions with different effort levels
- Point out long-term patterns`,
}

// SystemPrompt returns the system instruction for depth. Unknown depths
// use the medium tier.
func SystemPrompt(depth string) string {
	instr, ok := depthInstructions[depth]
	if !ok {
		instr = depthInstructions[model.DepthMedium]
	}
	return basePrompt + instr
}

const searchSystemPrompt = `You are a smart search assistant for a personal journal.
Analyze the entries and find the ones most relevant to the user's question.
Always answer with valid JSON only.`

func intOrPlaceholder(v *int) string {
	if v == nil {
		return notInformed
	}
	return strconv.Itoa(*v)
}

func floatOrPlaceholder(v *float64) string {
	if v == nil {
		return notInformed
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func textOrPlaceholder(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return notInformed
	}
	return *v
}

// DailyPrompt builds the user instruction for a daily insight.
func DailyPrompt(entry model.Entry, cd ContextData) string {
	tags := "none"
	if len(cd.FrequentTags) > 0 {
		tags = strings.Join(cd.FrequentTags, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this journal entry and generate personalized insights.\n\n")
	fmt.Fprintf(&b, "TODAY'S ENTRY (%s):\n", entry.EntryDate)
	fmt.Fprintf(&b, "- Content: %s\n", textOrPlaceholder(entry.Content))
	fmt.Fprintf(&b, "- Mood: %s/10\n", intOrPlaceholder(entry.Mood))
	fmt.Fprintf(&b, "- Energy: %s/10\n", intOrPlaceholder(entry.Energy))
	fmt.Fprintf(&b, "- Sleep: %sh (quality: %s/10)\n", floatOrPlaceholder(entry.SleepHours), intOrPlaceholder(entry.SleepQuality))
	fmt.Fprintf(&b, "- Stress: %s/10\n", intOrPlaceholder(entry.Stress))
	fmt.Fprintf(&b, "- Focus: %s/10\n", intOrPlaceholder(entry.Focus))
	fmt.Fprintf(&b, "- Physical discomfort: %s/10\n", intOrPlaceholder(entry.PhysicalDiscomfort))
	fmt.Fprintf(&b, "- Highlight: %s\n\n", textOrPlaceholder(entry.Highlight))
	fmt.Fprintf(&b, "CONTEXT FROM RECENT DAYS:\n")
	fmt.Fprintf(&b, "- Average mood: %.1f/10\n", cd.AvgMood)
	fmt.Fprintf(&b, "- Average sleep: %.1fh\n", cd.AvgSleep)
	fmt.Fprintf(&b, "- Average energy: %.1f/10\n", cd.AvgEnergy)
	fmt.Fprintf(&b, "- Frequent tags: %s\n\n", tags)
	b.WriteString(`Answer ONLY with valid JSON in this format:
{
  "summary": "Summary of the day in 2-5 sentences",
  "insights": ["insight 1", "insight 2", "insight 3"],
  "tomorrowPlan": ["task 1", "task 2", "self-care"],
  "emotions": ["emotion1", "emotion2"]
}`)
	return b.String()
}

func shortInt(v *int) string {
	if v == nil {
		return "?"
	}
	return strconv.Itoa(*v)
}

func shortFloat(v *float64) string {
	if v == nil {
		return "?"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WeeklyPrompt builds the user instruction for a weekly summary.
func WeeklyPrompt(entries []model.Entry, cd ContextData) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: mood %s/10, energy %s/10, sleep %sh",
			e.EntryDate, shortInt(e.Mood), shortInt(e.Energy), shortFloat(e.SleepHours)))
	}

	var b strings.Builder
	b.WriteString("Write a weekly summary based on these entries:\n\n")
	b.WriteString("ENTRIES OF THE WEEK:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nAVERAGES:\n")
	fmt.Fprintf(&b, "- Mood: %.1f/10\n", cd.AvgMood)
	fmt.Fprintf(&b, "- Sleep: %.1fh\n", cd.AvgSleep)
	fmt.Fprintf(&b, "- Energy: %.1f/10\n\n", cd.AvgEnergy)
	b.WriteString(`Answer ONLY with valid JSON in this format:
{
  "title": "Creative title for the week",
  "narrative": "Short narrative of the week in 3-5 sentences",
  "highlights": ["high point 1", "high point 2"],
  "lowlights": ["point of attention 1"],
  "suggestions": ["suggestion for next week 1", "suggestion 2"]
}`)
	return b.String()
}

type searchEntry struct {
	ID        uint    `json:"id"`
	Date      string  `json:"date"`
	Content   string  `json:"content,omitempty"`
	Mood      *int    `json:"mood"`
	Highlight *string `json:"highlight"`
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// SearchPrompt builds the user instruction for a semantic search.
func SearchPrompt(query string, entries []model.Entry) string {
	data := make([]searchEntry, 0, len(entries))
	for _, e := range entries {
		se := searchEntry{ID: e.ID, Date: e.EntryDate, Mood: e.Mood, Highlight: e.Highlight}
		if e.Content != nil {
			se.Content = truncateRunes(*e.Content, 200)
		}
		data = append(data, se)
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		encoded = []byte("[]")
	}

	return fmt.Sprintf(`User question: %q

Available entries:
%s

Answer with JSON:
{
  "results": [{"entry_id": 1, "relevance": "Why this entry is relevant"}],
  "summary": "Summary of what was found"
}`, query, encoded)
}
