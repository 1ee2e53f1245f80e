package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"minicourse/apperr"
	"minicourse/logger"
	courseModels "minicourse/models/course"

	"github.com/go-resty/resty/v2"
)

// Remote forwards each suggestion to an HTTP service at
// POST {baseURL}/{kind} with body {"input": "..."}.
type Remote struct {
	client *resty.Client
	log    *logger.Logger
}

func NewRemote(baseURL, apiKey string, timeout time.Duration, baseLog *logger.Logger) *Remote {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &Remote{client: client, log: baseLog.With("client", "SuggestRemote")}
}

type remoteText struct {
	Text string `json:"text"`
}

func (r *Remote) call(ctx context.Context, kind Kind, input string, out interface{}) error {
	op := "suggest.Remote." + string(kind)

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"input": input}).
		Post("/" + string(kind))
	if err != nil {
		r.log.Warn("Suggestion service unreachable", "kind", kind, "error", err)
		return apperr.New(apperr.ErrTransient, op, err)
	}
	if resp.IsError() {
		r.log.Warn("Suggestion service failed", "kind", kind, "status", resp.StatusCode())
		return apperr.Newf(apperr.ErrTransient, op, "status %d", resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return apperr.New(apperr.ErrTransient, op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (r *Remote) text(ctx context.Context, kind Kind, input string) (string, error) {
	var out remoteText
	if err := r.call(ctx, kind, input, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (r *Remote) LessonText(ctx context.Context, prompt string) (string, error) {
	return r.text(ctx, KindLessonText, prompt)
}

func (r *Remote) Quiz(ctx context.Context, topic string) (*courseModels.QuizPayload, error) {
	var q courseModels.QuizPayload
	if err := r.call(ctx, KindQuiz, topic, &q); err != nil {
		return nil, err
	}
	switch strings.ToLower(q.Type) {
	case "mcq", "":
		q.Type = "mc"
	default:
		q.Type = strings.ToLower(q.Type)
	}
	return &q, nil
}

func (r *Remote) CourseStructure(ctx context.Context, topic string) (*Structure, error) {
	var s Structure
	if err := r.call(ctx, KindCourseStructure, topic, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Remote) AnalyzeOutcome(ctx context.Context, outcome string) (string, error) {
	return r.text(ctx, KindAnalyzeOutcome, outcome)
}

func (r *Remote) AnalyzeAudience(ctx context.Context, audience string) (string, error) {
	return r.text(ctx, KindAnalyzeAudience, audience)
}

func (r *Remote) ExplainConcept(ctx context.Context, conceptKey string) (string, error) {
	return r.text(ctx, KindExplain, conceptKey)
}

func (r *Remote) ImageConcept(ctx context.Context, topic string) (string, error) {
	return r.text(ctx, KindImageConcept, topic)
}
