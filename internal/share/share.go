// Package share encodes workout templates into short printable codes that
// can be pasted between users, and decodes them back.
//
// A code is base64 over the percent-escaped JSON of the shareable part of a
// template. Identity, ownership and timestamps never leave the device.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/claude/liftlog/internal/models"
)

// ErrEmptyName is returned by Encode for templates without a name, which
// Decode would reject.
var ErrEmptyName = errors.New("template name is empty")

// Shareable is the portion of a template carried by a share code.
type Shareable struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Exercises   []models.TemplateExercise `json:"exercises"`
}

// Project extracts the shareable fields of t.
func Project(t models.Template) Shareable {
	ex := t.Exercises
	if ex == nil {
		ex = []models.TemplateExercise{}
	}
	return Shareable{Name: t.Name, Description: t.Description, Exercises: ex}
}

// Template builds a new, unsaved template from the shared plan.
func (s Shareable) Template() models.Template {
	ex := make([]models.TemplateExercise, len(s.Exercises))
	copy(ex, s.Exercises)
	return models.Template{
		Name:        s.Name,
		Description: s.Description,
		Exercises:   ex,
	}
}

// Encode returns the share code for t. The same template always yields the
// same code.
func Encode(t models.Template) (string, error) {
	if t.Name == "" {
		return "", ErrEmptyName
	}
	data, err := json.Marshal(Project(t))
	if err != nil {
		return "", fmt.Errorf("marshaling template: %w", err)
	}
	return base64.StdEncoding.EncodeToString([]byte(escapeComponent(data))), nil
}

// wire mirrors Shareable with raw fields so the shape can be checked before
// it is trusted.
type wire struct {
	Name        json.RawMessage `json:"name"`
	Description string          `json:"description"`
	Exercises   json.RawMessage `json:"exercises"`
}

// Decode parses a share code. Any malformed input, including a missing name
// or a non-array exercise list, yields (nil, false).
func Decode(code string) (*Shareable, bool) {
	raw, ok := decodeBase64(strings.TrimSpace(code))
	if !ok {
		return nil, false
	}
	text, err := url.PathUnescape(string(raw))
	if err != nil {
		return nil, false
	}

	var w wire
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return nil, false
	}

	var name string
	if len(w.Name) == 0 || json.Unmarshal(w.Name, &name) != nil || name == "" {
		return nil, false
	}

	ex := bytes.TrimSpace(w.Exercises)
	if len(ex) == 0 || ex[0] != '[' {
		return nil, false
	}
	var exercises []models.TemplateExercise
	if err := json.Unmarshal(ex, &exercises); err != nil {
		return nil, false
	}
	if exercises == nil {
		exercises = []models.TemplateExercise{}
	}

	return &Shareable{Name: name, Description: w.Description, Exercises: exercises}, true
}

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(s string) ([]byte, bool) {
	if s == "" {
		return nil, false
	}
	for _, enc := range encodings {
		if b, err := enc.DecodeString(s); err == nil {
			return b, true
		}
	}
	return nil, false
}

const upperhex = "0123456789ABCDEF"

// escapeComponent percent-escapes every byte outside the unreserved set
// A-Z a-z 0-9 - _ . ! ~ * ' ( ). This is the browser encodeURIComponent
// alphabet, which url.QueryEscape and url.PathEscape both differ from.
func escapeComponent(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		if unreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
