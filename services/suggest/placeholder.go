package suggest

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	courseModels "minicourse/models/course"
)

const unknownConcept = "Explanation not found for this concept. Please check the concept key."

var explanations = map[string]string{
	"bp1_specificity":   "**Best Practice #1: Hyper-Specificity.** Your learning outcome should define a single, concrete skill or ability the learner will gain. Avoid vague terms. *Example:* Instead of 'Understand marketing', use 'Be able to write a compelling headline for a Facebook ad'.",
	"bp2_audience":      "**Best Practice #2: Audience Awareness.** Define exactly who this course is for. What's their starting knowledge? What problem are they trying to solve? Tailoring content makes it much more effective.",
	"bp3_bite_sized":    "**Best Practice #3: Bite-Sized Content.** Keep lessons and individual content blocks (like text or video) short and focused. Aim for one key idea per block/lesson. This respects learner time and improves retention.",
	"bp4_actionability": "**Best Practice #4: Actionability.** Ensure your content leads to action. Include clear steps, exercises, or prompts that encourage learners to apply what they've learned.",
	"bp5_engagement":    "**Best Practice #5: Engagement.** Use quizzes, questions, or simple interactions to keep learners involved and check their understanding.",
	"bp6_media":         "**Best Practice #6: Use Media Wisely.** Images and short videos (<5 mins) can enhance learning, but ensure they directly support the content and aren't just decorative.",
	"bp7_intro":         "**Introduction Purpose:** Set the stage! Clearly state the course outcome, briefly explain why it's important for the target audience, and outline what the course will cover.",
	"bp8_conclusion":    "**Conclusion Purpose:** Summarize key takeaways, restate the outcome, suggest clear next steps or calls to action, and provide encouragement.",
}

// Placeholder answers from canned templates. It is the default generator
// when no remote service is configured.
type Placeholder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewPlaceholder(seed int64) *Placeholder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Placeholder{rng: rand.New(rand.NewSource(seed))}
}

func (p *Placeholder) intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

func (p *Placeholder) pick(options []string) string {
	return options[p.intn(len(options))]
}

func (p *Placeholder) LessonText(_ context.Context, prompt string) (string, error) {
	return p.pick([]string{
		fmt.Sprintf("Based on '%s', here's a starting point: Focus on the core concept first. Explain it simply, then provide one clear example. Remember to keep it brief and actionable.", prompt),
		fmt.Sprintf("Draft for '%s': Begin with a question to engage the learner. Then, present the key information concisely. Conclude with a quick check for understanding or a transition to the next step.", prompt),
		fmt.Sprintf("AI Suggestion for '%s': Ensure this text directly supports the lesson's objective and the overall course outcome. Use simple language and avoid jargon where possible. Add a practical tip if relevant.", prompt),
	}), nil
}

func (p *Placeholder) Quiz(_ context.Context, topic string) (*courseModels.QuizPayload, error) {
	if p.intn(2) == 0 {
		return &courseModels.QuizPayload{
			Question:      fmt.Sprintf("What is the most crucial takeaway regarding '%s'?", topic),
			Type:          "mc",
			Options:       []string{"Key Point Alpha (AI)", "Key Point Beta (AI)", "Key Point Gamma (AI)"},
			CorrectAnswer: p.intn(3),
		}, nil
	}
	return &courseModels.QuizPayload{
		Question:      fmt.Sprintf("True or False: '%s' is primarily concerned with [AI Generated Concept]?", topic),
		Type:          "tf",
		Options:       []string{"True", "False"},
		CorrectAnswer: p.intn(2),
	}, nil
}

func (p *Placeholder) CourseStructure(_ context.Context, topic string) (*Structure, error) {
	return &Structure{Modules: []StructureModule{
		{Title: "Module 1: Intro to " + topic, Lessons: []string{"1.1: What is " + topic + "?", "1.2: Why it Matters"}},
		{Title: "Module 2: Core Components", Lessons: []string{"2.1: Component X", "2.2: Component Y"}},
		{Title: "Module 3: Getting Started", Lessons: []string{"3.1: First Steps", "3.2: Simple Example"}},
	}}, nil
}

func (p *Placeholder) AnalyzeOutcome(_ context.Context, outcome string) (string, error) {
	if len([]rune(outcome)) < 20 {
		return "Suggestion: This outcome seems very short. Ensure it clearly states what the learner will be able to *do* after the course.", nil
	}
	return p.pick([]string{
		"Suggestion: Ensure your outcome starts with an action verb (e.g., 'List', 'Describe', 'Create').",
		"Suggestion: Is the outcome measurable? How would you know if a learner achieved it?",
		fmt.Sprintf("Suggestion: Consider if '%s...' is specific enough. Could it be broken down further?", truncate(outcome, 30)),
	}), nil
}

func (p *Placeholder) AnalyzeAudience(_ context.Context, audience string) (string, error) {
	if len([]rune(audience)) < 15 {
		return "Suggestion: This audience description seems brief. Add more detail about their background or needs.", nil
	}
	return p.pick([]string{
		"Suggestion: Be specific! Who *exactly* is this for? What is their current skill level?",
		"Suggestion: What problem does this course solve for this specific audience?",
		fmt.Sprintf("Suggestion: Consider adding details about the audience's goals related to '%s...'.", truncate(audience, 30)),
	}), nil
}

func (p *Placeholder) ExplainConcept(_ context.Context, conceptKey string) (string, error) {
	if text, ok := explanations[conceptKey]; ok {
		return text, nil
	}
	return unknownConcept, nil
}

func (p *Placeholder) ImageConcept(_ context.Context, topic string) (string, error) {
	keywords := strings.Fields(topic)
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}
	return fmt.Sprintf("Based on '%s...', consider images illustrating: %s. Or perhaps a diagram showing a key process?",
		truncate(topic, 50), strings.Join(keywords, ", ")), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
