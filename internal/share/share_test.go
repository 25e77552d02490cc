package share

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

func pushDay() models.Template {
	order := 1
	return models.Template{
		ID:          uuid.New(),
		UserID:      7,
		Name:        "Drücken Woche 3",
		Description: "Bench focus, 90s rest & pauses",
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Exercises: []models.TemplateExercise{
			{
				ExerciseID:  "bench_press",
				Sets:        4,
				Reps:        6,
				Weight:      82.5,
				Weights:     []float64{80, 82.5, 85, 85},
				RestSeconds: 90,
				Notes:       "pause 1s on chest",
				FormCues:    []string{"retract scapula", "feet planted"},
			},
			{
				ExerciseID:    "dips",
				Sets:          3,
				Reps:          10,
				RestSeconds:   60,
				SupersetGroup: "A",
				SupersetOrder: &order,
			},
		},
	}
}

// TestEncodeKnownCode pins the wire format for a minimal template.
func TestEncodeKnownCode(t *testing.T) {
	code, err := Encode(models.Template{Name: "Push Day"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "JTdCJTIybmFtZSUyMiUzQSUyMlB1c2glMjBEYXklMjIlMkMlMjJleGVyY2lzZXMlMjIlM0ElNUIlNUQlN0Q="
	if code != want {
		t.Errorf("code = %s, want %s", code, want)
	}
}

// TestRoundTrip verifies decoding an encoded template yields its projection,
// including non-ASCII text, per-set weights and superset fields.
func TestRoundTrip(t *testing.T) {
	tmpl := pushDay()
	code, err := Encode(tmpl)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, ok := Decode(code)
	if !ok {
		t.Fatalf("Decode(%q) failed", code)
	}
	if diff := cmp.Diff(Project(tmpl), *got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestEncodeDeterministic verifies equal templates share a code and that
// identity fields do not leak into it.
func TestEncodeDeterministic(t *testing.T) {
	a := pushDay()
	b := pushDay()
	b.ID = uuid.New()
	b.UserID = 99
	b.CreatedAt = time.Now()

	ca, err := Encode(a)
	if err != nil {
		t.Fatal(err)
	}
	cb, err := Encode(b)
	if err != nil {
		t.Fatal(err)
	}
	if ca != cb {
		t.Errorf("codes differ for templates with the same plan")
	}
	if strings.ContainsAny(ca, " \n%") {
		t.Errorf("code should be plain base64, got %q", ca)
	}
}

// TestEncodeRejectsEmptyName verifies Encode refuses codes that could not be decoded.
func TestEncodeRejectsEmptyName(t *testing.T) {
	if _, err := Encode(models.Template{}); err != ErrEmptyName {
		t.Errorf("err = %v, want ErrEmptyName", err)
	}
}

// TestDecodeAcceptsVariants verifies surrounding whitespace, URL-safe and
// unpadded base64 are all accepted.
func TestDecodeAcceptsVariants(t *testing.T) {
	code, err := Encode(pushDay())
	if err != nil {
		t.Fatal(err)
	}
	raw, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		t.Fatal(err)
	}

	variants := map[string]string{
		"whitespace": "  " + code + "\n",
		"raw std":    base64.RawStdEncoding.EncodeToString(raw),
		"url":        base64.URLEncoding.EncodeToString(raw),
		"raw url":    base64.RawURLEncoding.EncodeToString(raw),
	}
	for name, v := range variants {
		got, ok := Decode(v)
		if !ok {
			t.Errorf("%s: decode failed", name)
			continue
		}
		if got.Name != "Drücken Woche 3" {
			t.Errorf("%s: name = %q", name, got.Name)
		}
	}
}

func encodeJSON(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(escapeComponent([]byte(s))))
}

// TestDecodeFailures verifies every malformed input fails closed.
func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"not base64", "not-a-valid-code"},
		{"base64 of garbage", base64.StdEncoding.EncodeToString([]byte{0xff, 0x00, 0x13})},
		{"bad escape", base64.StdEncoding.EncodeToString([]byte("%ZZ"))},
		{"not json", encodeJSON("hello")},
		{"json array", encodeJSON(`[1,2,3]`)},
		{"json null", encodeJSON(`null`)},
		{"missing name", encodeJSON(`{"exercises":[]}`)},
		{"empty name", encodeJSON(`{"name":"","exercises":[]}`)},
		{"numeric name", encodeJSON(`{"name":42,"exercises":[]}`)},
		{"null exercises", encodeJSON(`{"name":"A","exercises":null}`)},
		{"missing exercises", encodeJSON(`{"name":"A"}`)},
		{"object exercises", encodeJSON(`{"name":"A","exercises":{}}`)},
		{"string exercises", encodeJSON(`{"name":"A","exercises":"squat"}`)},
		{"bad exercise shape", encodeJSON(`{"name":"A","exercises":[{"sets":"four"}]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.code)
			if ok || got != nil {
				t.Errorf("Decode(%q) = %+v, %v; want nil, false", tt.code, got, ok)
			}
		})
	}
}

// TestDecodeEmptyExercises verifies an empty exercise array is valid.
func TestDecodeEmptyExercises(t *testing.T) {
	got, ok := Decode(encodeJSON(`{"name":"Rest day","exercises":[]}`))
	if !ok {
		t.Fatal("decode failed")
	}
	if got.Exercises == nil || len(got.Exercises) != 0 {
		t.Errorf("exercises = %#v, want empty slice", got.Exercises)
	}
}

// TestDecodeNeverPanics feeds truncated and mutated codes through Decode.
func TestDecodeNeverPanics(t *testing.T) {
	code, err := Encode(pushDay())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i <= len(code); i++ {
		Decode(code[:i])
		mutated := []byte(code)
		if i < len(mutated) {
			mutated[i] ^= 0x5a
		}
		Decode(string(mutated))
	}
}

// TestShareableTemplate verifies import builds an unsaved copy of the plan.
func TestShareableTemplate(t *testing.T) {
	s := Project(pushDay())
	tmpl := s.Template()
	if tmpl.ID != uuid.Nil || tmpl.UserID != 0 || !tmpl.CreatedAt.IsZero() {
		t.Errorf("imported template carries identity: %+v", tmpl)
	}
	tmpl.Exercises[0].Sets = 99
	if s.Exercises[0].Sets == 99 {
		t.Error("Template() must copy the exercise slice")
	}
}

// TestEscapeComponent checks the unreserved alphabet and multi-byte escaping.
func TestEscapeComponent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abcXYZ019", "abcXYZ019"},
		{"-_.!~*'()", "-_.!~*'()"},
		{" ", "%20"},
		{"+/=?&#", "%2B%2F%3D%3F%26%23"},
		{"ü", "%C3%BC"},
	}
	for _, tt := range tests {
		if got := escapeComponent([]byte(tt.in)); got != tt.want {
			t.Errorf("escapeComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
