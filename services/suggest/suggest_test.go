package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"minicourse/apperr"
	courseModels "minicourse/models/course"
	"minicourse/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderQuizIsAlwaysValid(t *testing.T) {
	ctx := context.Background()
	p := NewPlaceholder(1)

	for i := 0; i < 50; i++ {
		out, err := Generate(ctx, p, KindQuiz, "closures")
		require.NoError(t, err)
		q, ok := out.(*courseModels.QuizPayload)
		require.True(t, ok)
		assert.NoError(t, courseModels.ValidatePayload(q))
		assert.Contains(t, q.Question, "closures")
	}
}

func TestGenerateRequiresInput(t *testing.T) {
	ctx := context.Background()
	p := NewPlaceholder(1)

	for _, kind := range Kinds {
		_, err := Generate(ctx, p, kind, "   ")
		require.ErrorIs(t, err, apperr.ErrInvalid, string(kind))
		assert.Contains(t, apperr.FieldsOf(err), kind.InputField())
	}

	_, err := Generate(ctx, p, Kind("write_my_course"), "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestWorkflowAutomationStructure(t *testing.T) {
	ctx := context.Background()
	p := NewPlaceholder(1)

	out, err := Generate(ctx, p, KindCourseStructure, "Go testing")
	require.NoError(t, err)
	assert.Len(t, out.(*Structure).Modules, 3)
	assert.Equal(t, "Module 1: Intro to Go testing", out.(*Structure).Modules[0].Title)

	out, err = Generate(ctx, p, KindCourseStructure, "Workflow Automation for teams")
	require.NoError(t, err)
	mods := out.(*Structure).Modules
	require.Len(t, mods, 4)
	assert.Len(t, mods[3].Lessons, 3)
}

func TestExplainRendersEmphasis(t *testing.T) {
	ctx := context.Background()
	p := NewPlaceholder(1)

	out, err := Generate(ctx, p, KindExplain, "bp1_specificity")
	require.NoError(t, err)
	html := out.(string)
	assert.Contains(t, html, "<strong>Best Practice #1: Hyper-Specificity.</strong>")
	assert.Contains(t, html, "<em>Example:</em>")

	out, err = Generate(ctx, p, KindExplain, "bp99")
	require.NoError(t, err)
	assert.Equal(t, "<p>"+unknownConcept+"</p>", out.(string))
}

func TestPlaceholderShortInputs(t *testing.T) {
	ctx := context.Background()
	p := NewPlaceholder(1)

	s, err := p.AnalyzeOutcome(ctx, "Learn Go")
	require.NoError(t, err)
	assert.Contains(t, s, "very short")

	s, err = p.AnalyzeAudience(ctx, "devs")
	require.NoError(t, err)
	assert.Contains(t, s, "seems brief")

	s, err = p.ImageConcept(ctx, "one two three four five six seven")
	require.NoError(t, err)
	assert.Contains(t, s, "one, two, three, four, five.")
}

func TestRemote(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		switch strings.TrimPrefix(r.URL.Path, "/") {
		case string(KindQuiz):
			_, _ = w.Write([]byte(`{"question":"Q?","type":"MCQ","options":["a","b","c"],"correct_answer":1}`))
		case string(KindCourseStructure):
			_, _ = w.Write([]byte(`{"modules":[{"title":"Only","lessons":["x"]}]}`))
		case string(KindImageConcept):
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"text":"remote says hi"}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	r := NewRemote(srv.URL+"/", "k3y", 2*time.Second, testutil.Logger(t))

	out, err := Generate(ctx, r, KindLessonText, "intro")
	require.NoError(t, err)
	assert.Equal(t, "remote says hi", out)
	assert.Equal(t, "Bearer k3y", gotAuth)
	assert.Equal(t, "/generate_text", gotPath)
	assert.Equal(t, "intro", gotBody["input"])

	out, err = Generate(ctx, r, KindQuiz, "loops")
	require.NoError(t, err)
	assert.Equal(t, "mc", out.(*courseModels.QuizPayload).Type)

	out, err = Generate(ctx, r, KindCourseStructure, "anything")
	require.NoError(t, err)
	assert.Len(t, out.(*Structure).Modules, 1)

	_, err = Generate(ctx, r, KindImageConcept, "diagram")
	assert.ErrorIs(t, err, apperr.ErrTransient)
}

func TestRemoteInvalidQuizIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"question":"Q?","options":["only"],"correct_answer":0}`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "", time.Second, testutil.Logger(t))
	_, err := Generate(context.Background(), r, KindQuiz, "loops")
	assert.ErrorIs(t, err, apperr.ErrTransient)
}
