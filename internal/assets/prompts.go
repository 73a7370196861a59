// Prompt templates are stored as text files under prompts/ and embedded at compile time.

package assets

import (
	"bytes"
	_ "embed"
	"text/template"
)

// --- Static prompts (no dynamic data) ---

// StrategySystemPrompt is the system instruction for strategy synthesis.
//
//go:embed prompts/strategy-system.txt
var StrategySystemPrompt string

// --- Dynamic prompt templates ---

//go:embed prompts/mark.txt
var markTemplate string

//go:embed prompts/strategy.txt
var strategyTemplate string

//go:embed prompts/moodboard.txt
var moodboardTemplate string

//go:embed prompts/motion.txt
var motionTemplate string

// Pre-parsed templates. template.Must panics on malformed templates,
// catching errors at program startup rather than at call time.
var (
	markPromptTmpl      = template.Must(template.New("mark").Parse(markTemplate))
	strategyPromptTmpl  = template.Must(template.New("strategy").Parse(strategyTemplate))
	moodboardPromptTmpl = template.Must(template.New("moodboard").Parse(moodboardTemplate))
	motionPromptTmpl    = template.Must(template.New("motion").Parse(motionTemplate))
)

// MarkData holds the values injected into the primary mark prompt.
type MarkData struct {
	BusinessName string
	Niche        string
	Style        string
	Material     string
	PrimaryColor string
	Treatment    string
	Background   Background
}

// StrategyData holds the values injected into the strategy prompt.
type StrategyData struct {
	BusinessName        string
	Niche               string
	Style               string
	PrimaryColor        string
	FontFamily          string
	MaxMoodboardPrompts int
}

// MoodboardData holds the values injected into a moodboard image prompt.
type MoodboardData struct {
	BusinessName string
	Niche        string
	Style        string
	PrimaryColor string
	Scene        string
}

// MotionData holds the values injected into the motion prompt.
type MotionData struct {
	BusinessName string
	Material     string
}

// RenderMarkPrompt renders the primary mark image prompt.
func RenderMarkPrompt(d MarkData) string {
	return renderTemplate(markPromptTmpl, d)
}

// RenderStrategyPrompt renders the strategy synthesis prompt.
func RenderStrategyPrompt(d StrategyData) string {
	return renderTemplate(strategyPromptTmpl, d)
}

// RenderMoodboardPrompt renders one moodboard image prompt.
func RenderMoodboardPrompt(d MoodboardData) string {
	return renderTemplate(moodboardPromptTmpl, d)
}

// RenderMotionPrompt renders the video job prompt for a bundle.
func RenderMotionPrompt(d MotionData) string {
	return renderTemplate(motionPromptTmpl, d)
}

// renderTemplate executes a pre-parsed template. Execution errors are not
// expected with these flat templates; whatever was rendered is returned.
func renderTemplate(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}
