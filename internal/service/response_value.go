package service

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/collegekit/feedback-api/internal/model"
)

// ResponseValueCodec turns the raw per-question JSON answers into the
// canonical string persisted on response and snapshot rows, and reads numeric
// answers back out for aggregation. The canonical form is keyed by the
// question type: strings are stored unquoted, numbers without quotes or
// whitespace, and anything that does not match its declared type is stored as
// compact JSON so no answer is ever lost.
type ResponseValueCodec interface {
	Canonicalize(questionType string, raw json.RawMessage) string
	// Numeric reports the stored value as a float64 for question types that
	// aggregate numerically (scale, number). The bool is false for
	// non-numeric types and for values that do not parse.
	Numeric(questionType string, value string) (float64, bool)
}

type responseValueCodec struct{}

func NewResponseValueCodec() ResponseValueCodec {
	return &responseValueCodec{}
}

func (c *responseValueCodec) Canonicalize(questionType string, raw json.RawMessage) string {
	switch questionType {
	case model.QuestionTypeText, model.QuestionTypeChoice:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case model.QuestionTypeNumber, model.QuestionTypeScale:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return compactJSON(raw)
}

func (c *responseValueCodec) Numeric(questionType string, value string) (float64, bool) {
	if questionType != model.QuestionTypeNumber && questionType != model.QuestionTypeScale {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
