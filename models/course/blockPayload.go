package course

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"minicourse/apperr"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// BlockKind tags the payload variant stored in a ContentBlock.
type BlockKind string

const (
	KindText   BlockKind = "text"
	KindImage  BlockKind = "image"
	KindVideo  BlockKind = "video"
	KindQuiz   BlockKind = "quiz"
	KindAction BlockKind = "action"
)

var BlockKinds = []BlockKind{KindText, KindImage, KindVideo, KindQuiz, KindAction}

func (k BlockKind) Valid() bool {
	for _, known := range BlockKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Payload is implemented by one struct per block kind.
type Payload interface {
	Kind() BlockKind
}

type TextPayload struct {
	HTML string `json:"html" validate:"max=200000"`
}

type ImagePayload struct {
	URL string `json:"url" validate:"omitempty,uri,max=2048"`
	Alt string `json:"alt" validate:"max=500"`
}

type VideoPayload struct {
	URL string `json:"url" validate:"omitempty,uri,max=2048"`
}

// QuizPayload is a multiple choice (mc) or true/false (tf) question.
// CorrectAnswer indexes Options.
type QuizPayload struct {
	Question      string   `json:"question" validate:"required,max=2000"`
	Type          string   `json:"type" validate:"omitempty,oneof=mc tf"`
	Options       []string `json:"options" validate:"min=2,max=20,dive,required,max=500"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
}

type ActionPayload struct {
	HTML string `json:"html" validate:"max=200000"`
}

func (TextPayload) Kind() BlockKind   { return KindText }
func (ImagePayload) Kind() BlockKind  { return KindImage }
func (VideoPayload) Kind() BlockKind  { return KindVideo }
func (QuizPayload) Kind() BlockKind   { return KindQuiz }
func (ActionPayload) Kind() BlockKind { return KindAction }

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// DefaultPayload returns the content a freshly appended block starts with.
func DefaultPayload(kind BlockKind) (Payload, error) {
	switch kind {
	case KindText:
		return &TextPayload{HTML: "<p>New text block</p>"}, nil
	case KindImage:
		return &ImagePayload{}, nil
	case KindVideo:
		return &VideoPayload{}, nil
	case KindQuiz:
		return &QuizPayload{
			Question:      "New Quiz Question?",
			Type:          "mc",
			Options:       []string{"Option 1", "Option 2"},
			CorrectAnswer: 0,
		}, nil
	case KindAction:
		return &ActionPayload{HTML: "<p>New action step</p>"}, nil
	}
	return nil, invalidKind(kind)
}

func newPayload(kind BlockKind) (Payload, error) {
	switch kind {
	case KindText:
		return &TextPayload{}, nil
	case KindImage:
		return &ImagePayload{}, nil
	case KindVideo:
		return &VideoPayload{}, nil
	case KindQuiz:
		return &QuizPayload{}, nil
	case KindAction:
		return &ActionPayload{}, nil
	}
	return nil, invalidKind(kind)
}

// DecodePayload parses raw as the variant for kind and validates it. Fields
// that belong to another kind are rejected.
func DecodePayload(kind BlockKind, raw []byte) (Payload, error) {
	p, err := newPayload(kind)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, apperr.WithFields(apperr.ErrInvalidPayload, "course.DecodePayload", map[string]string{
			"content": "Content must be a JSON object!",
		})
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, apperr.WithFields(apperr.ErrInvalidPayload, "course.DecodePayload", map[string]string{
			"content": fmt.Sprintf("Content does not match a %s block: %v", kind, err),
		})
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, apperr.WithFields(apperr.ErrInvalidPayload, "course.DecodePayload", map[string]string{
			"content": "Content must be a single JSON object!",
		})
	}

	if q, ok := p.(*QuizPayload); ok {
		q.Type = normalizeQuizType(q.Type)
	}
	if err := ValidatePayload(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ValidatePayload checks the per-kind schema.
func ValidatePayload(p Payload) error {
	if p == nil {
		return apperr.WithFields(apperr.ErrInvalidPayload, "course.ValidatePayload", map[string]string{
			"content": "Content is required!",
		})
	}

	fields := make(map[string]string)
	if err := payloadValidator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperr.New(apperr.ErrInvalidPayload, "course.ValidatePayload", err)
		}
		for _, fe := range verrs {
			fields[fieldKey(fe)] = fieldMessage(fe)
		}
	}

	if q, ok := p.(*QuizPayload); ok && len(fields) == 0 {
		if q.CorrectAnswer >= len(q.Options) {
			fields["correct_answer"] = fmt.Sprintf("Correct answer must index one of the %d options!", len(q.Options))
		}
		if q.Type == "tf" && len(q.Options) != 2 {
			fields["options"] = "A true/false quiz has exactly 2 options!"
		}
	}

	if len(fields) > 0 {
		return apperr.WithFields(apperr.ErrInvalidPayload, "course.ValidatePayload", fields)
	}
	return nil
}

// EncodePayload serializes a validated payload for the content column.
func EncodePayload(p Payload) (datatypes.JSON, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func normalizeQuizType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "mc", "mcq":
		return "mc"
	case "tf":
		return "tf"
	}
	return t
}

func invalidKind(kind BlockKind) error {
	return apperr.WithFields(apperr.ErrInvalidPayload, "course.BlockKind", map[string]string{
		"block_type": fmt.Sprintf("Unknown block type %q!", string(kind)),
	})
}

func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "min":
		return fmt.Sprintf("Must have at least %s entries!", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s long!", fe.Param())
	case "uri":
		return "Must be a valid URL or path!"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s!", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s!", fe.Param())
	}
	return "Invalid value!"
}
