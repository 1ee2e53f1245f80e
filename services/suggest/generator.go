// Package suggest produces authoring suggestions: draft text, quizzes,
// course outlines and feedback on outcome and audience descriptions. It never
// touches the course hierarchy; callers decide what to do with a suggestion.
package suggest

import (
	"bytes"
	"context"
	"strings"

	"minicourse/apperr"
	courseModels "minicourse/models/course"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type StructureModule struct {
	Title   string   `json:"title"`
	Lessons []string `json:"lessons"`
}

// Structure is a suggested course outline.
type Structure struct {
	Modules []StructureModule `json:"modules"`
}

type Generator interface {
	LessonText(ctx context.Context, prompt string) (string, error)
	Quiz(ctx context.Context, topic string) (*courseModels.QuizPayload, error)
	CourseStructure(ctx context.Context, topic string) (*Structure, error)
	AnalyzeOutcome(ctx context.Context, outcome string) (string, error)
	AnalyzeAudience(ctx context.Context, audience string) (string, error)
	ExplainConcept(ctx context.Context, conceptKey string) (string, error)
	ImageConcept(ctx context.Context, topic string) (string, error)
}

// Kind names one suggestion endpoint.
type Kind string

const (
	KindLessonText      Kind = "generate_text"
	KindQuiz            Kind = "generate_quiz"
	KindCourseStructure Kind = "suggest_structure"
	KindAnalyzeOutcome  Kind = "analyze_outcome"
	KindAnalyzeAudience Kind = "analyze_audience"
	KindExplain         Kind = "explain"
	KindImageConcept    Kind = "suggest_image_concept"
)

type kindFields struct {
	input    string
	output   string
	required string
}

var fieldsByKind = map[Kind]kindFields{
	KindLessonText:      {input: "prompt", output: "generated_text", required: "Prompt is required!"},
	KindQuiz:            {input: "context", output: "generated_quiz", required: "Context is required!"},
	KindCourseStructure: {input: "topic", output: "suggested_structure", required: "Topic is required!"},
	KindAnalyzeOutcome:  {input: "outcome_text", output: "suggestion", required: "Outcome text is required!"},
	KindAnalyzeAudience: {input: "audience_text", output: "suggestion", required: "Audience text is required!"},
	KindExplain:         {input: "concept_key", output: "explanation", required: "Concept key is required!"},
	KindImageConcept:    {input: "context", output: "suggestion", required: "Context is required!"},
}

// Kinds lists every supported suggestion in route order.
var Kinds = []Kind{
	KindLessonText, KindQuiz, KindCourseStructure, KindAnalyzeOutcome,
	KindAnalyzeAudience, KindExplain, KindImageConcept,
}

// InputField is the request body field carrying the kind's input.
func (k Kind) InputField() string { return fieldsByKind[k].input }

// OutputField is the response field carrying the kind's result.
func (k Kind) OutputField() string { return fieldsByKind[k].output }

func (k Kind) RequiredMessage() string { return fieldsByKind[k].required }

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Generate validates input and runs the generator operation for kind. The
// returned value is a string, a *courseModels.QuizPayload or a *Structure.
func Generate(ctx context.Context, g Generator, kind Kind, input string) (interface{}, error) {
	const op = "suggest.Generate"

	if _, ok := fieldsByKind[kind]; !ok {
		return nil, apperr.Newf(apperr.ErrNotFound, op, "unknown suggestion %q", kind)
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, apperr.WithFields(apperr.ErrInvalid, op, map[string]string{kind.InputField(): kind.RequiredMessage()})
	}

	switch kind {
	case KindLessonText:
		return g.LessonText(ctx, input)
	case KindQuiz:
		q, err := g.Quiz(ctx, input)
		if err != nil {
			return nil, err
		}
		if err := courseModels.ValidatePayload(q); err != nil {
			return nil, apperr.New(apperr.ErrTransient, op, err)
		}
		return q, nil
	case KindCourseStructure:
		s, err := g.CourseStructure(ctx, input)
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(input), "workflow automation") {
			s.Modules = append(s.Modules, StructureModule{
				Title: "Module 4: Identifying Automation Opportunities (AI)",
				Lessons: []string{
					"4.1: Exercise: List Your Top 5 Tasks",
					"4.2: Analyzing Tasks for Automation Potential",
					"4.3: Prioritizing Opportunities",
				},
			})
		}
		return s, nil
	case KindAnalyzeOutcome:
		return g.AnalyzeOutcome(ctx, input)
	case KindAnalyzeAudience:
		return g.AnalyzeAudience(ctx, input)
	case KindExplain:
		text, err := g.ExplainConcept(ctx, input)
		if err != nil {
			return nil, err
		}
		return renderMarkdown(text)
	default:
		return g.ImageConcept(ctx, input)
	}
}

func renderMarkdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
