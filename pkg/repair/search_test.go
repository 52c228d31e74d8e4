package repair

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
)

const (
	vec1Secret = "ms10testsxxxxxxxxxxxxxxxxxxxxxxxxxx4nzvca9cmczlw"
	vec2Secret = "MS12NAMES6XQGUZTTXKEQNJSJZV4JV3NZ5K3KWGSPHUH6EVW"

	// vec1Secret with one substitution at position 9 (x -> l).
	corrOne = "ms10testslxxxxxxxxxxxxxxxxxxxxxxxxx4nzvca9cmczlw"
	// vec1Secret with substitutions at positions 12 (x -> q) and
	// 30 (x -> z); no single substitution makes it valid.
	corrTwo = "ms10testsxxxqxxxxxxxxxxxxxxxxxzxxxx4nzvca9cmczlw"
	// vec2Secret with one substitution at position 20 (Q -> P).
	corrUpper = "MS12NAMES6XQGUZTTXKEPNJSJZV4JV3NZ5K3KWGSPHUH6EVW"

	// well-formed length, no valid string within one substitution
	garbage = "ms1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq"
)

func TestSearch_AlreadyValid(t *testing.T) {
	res, err := Search(context.Background(), vec1Secret, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Found() || len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(res.Candidates))
	}
	c := res.Candidates[0]
	if c.Corrected != vec1Secret || c.ErrorCount != 0 || len(c.Changes) != 0 {
		t.Errorf("zero-error candidate = %+v", c)
	}
}

func TestSearch_AlreadyValidUppercase(t *testing.T) {
	res, err := Search(context.Background(), vec2Secret, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := res.Candidates[0].Corrected; got != vec2Secret {
		t.Errorf("Corrected = %q, want %q", got, vec2Secret)
	}
}

func TestSearch_MixedCaseNormalizes(t *testing.T) {
	mixed := "Ms10TESTS" + vec1Secret[9:]
	res, err := Search(context.Background(), mixed, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	c := res.Candidates[0]
	if c.Corrected != vec1Secret || c.ErrorCount != 0 {
		t.Errorf("candidate = %+v, want lowercased input with no errors", c)
	}
}

func TestSearch_SingleSubstitution(t *testing.T) {
	res, err := Search(context.Background(), corrOne, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(res.Candidates))
	}
	c := res.Candidates[0]
	if c.Corrected != vec1Secret {
		t.Errorf("Corrected = %q, want %q", c.Corrected, vec1Secret)
	}
	if c.Original != corrOne || c.ErrorCount != 1 {
		t.Errorf("Original = %q, ErrorCount = %d", c.Original, c.ErrorCount)
	}
	want := []Change{{Position: 9, From: 'l', To: 'x'}}
	if !reflect.DeepEqual(c.Changes, want) {
		t.Errorf("Changes = %+v, want %+v", c.Changes, want)
	}
}

func TestSearch_TwoSubstitutions(t *testing.T) {
	res, err := Search(context.Background(), corrTwo, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(res.Candidates))
	}
	c := res.Candidates[0]
	if c.Corrected != vec1Secret || c.ErrorCount != 2 {
		t.Errorf("Corrected = %q, ErrorCount = %d", c.Corrected, c.ErrorCount)
	}
	want := []Change{
		{Position: 12, From: 'q', To: 'x'},
		{Position: 30, From: 'z', To: 'x'},
	}
	if !reflect.DeepEqual(c.Changes, want) {
		t.Errorf("Changes = %+v, want %+v", c.Changes, want)
	}
}

func TestSearch_GroupedInput(t *testing.T) {
	grouped := "MS12 NAME S6XQ-GUZT TXKE PNJS JZV4 JV3N Z5K3 KWGS PHUH 6EVW"
	res, err := Search(context.Background(), grouped, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	c := res.Candidates[0]
	if c.Original != corrUpper {
		t.Errorf("Original = %q, want sanitized %q", c.Original, corrUpper)
	}
	if c.Corrected != vec2Secret {
		t.Errorf("Corrected = %q, want %q", c.Corrected, vec2Secret)
	}
}

func TestSearch_UppercaseRestored(t *testing.T) {
	res, err := Search(context.Background(), corrUpper, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(res.Candidates))
	}
	c := res.Candidates[0]
	if c.Corrected != vec2Secret {
		t.Errorf("Corrected = %q, want %q", c.Corrected, vec2Secret)
	}
	want := []Change{{Position: 20, From: 'P', To: 'Q'}}
	if !reflect.DeepEqual(c.Changes, want) {
		t.Errorf("Changes = %+v, want %+v", c.Changes, want)
	}
}

func TestSearch_WorkerCountInvariance(t *testing.T) {
	one, err := Search(context.Background(), corrTwo, Options{Workers: 1})
	if err != nil {
		t.Fatalf("Workers 1: %v", err)
	}
	four, err := Search(context.Background(), corrTwo, Options{Workers: 4})
	if err != nil {
		t.Fatalf("Workers 4: %v", err)
	}
	if !reflect.DeepEqual(one.Candidates, four.Candidates) {
		t.Errorf("worker counts disagree:\n 1: %+v\n 4: %+v", one.Candidates, four.Candidates)
	}
}

func TestSearch_StopOnFirst(t *testing.T) {
	res, err := Search(context.Background(), corrOne, Options{StopOnFirst: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(res.Candidates))
	}
	if err := codex32.Validate(res.Candidates[0].Corrected); err != nil {
		t.Errorf("candidate does not validate: %v", err)
	}
}

func TestSearch_NoCorrection(t *testing.T) {
	res, err := Search(context.Background(), garbage, Options{MaxErrors: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Found() {
		t.Fatalf("unexpected candidates: %+v", res.Candidates)
	}
	if res.Message == "" {
		t.Error("exhausted search should carry a message")
	}
}

func TestSearch_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", " - - "} {
		if _, err := Search(context.Background(), in, Options{}); !errors.Is(err, codex32.ErrMalformed) {
			t.Errorf("Search(%q) error = %v, want malformed", in, err)
		}
	}
}

func TestSearch_ShortInput(t *testing.T) {
	// Inputs shorter than the prefix plus the search depth have no
	// candidate space at the deeper counts; the search must exhaust
	// cleanly rather than fail.
	for _, in := range []string{"ms1", "ms1q", "ms1qq", "MS1Q"} {
		res, err := Search(context.Background(), in, Options{})
		if err != nil {
			t.Fatalf("Search(%q): %v", in, err)
		}
		if res.Found() {
			t.Errorf("Search(%q) candidates = %+v, want none", in, res.Candidates)
		}
		if res.Message == "" {
			t.Errorf("Search(%q) should carry an exhaustion message", in)
		}
	}
}

func TestSearch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Search(ctx, garbage, Options{MaxErrors: 2, Workers: 2})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSearchErasures_TwoPositions(t *testing.T) {
	damaged := []byte(vec1Secret)
	damaged[5] = 'q'
	damaged[10] = 'q'
	res, err := SearchErasures(context.Background(), string(damaged), []int{5, 10}, Options{})
	if err != nil {
		t.Fatalf("SearchErasures: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(res.Candidates))
	}
	c := res.Candidates[0]
	if c.Corrected != vec1Secret || c.ErrorCount != 2 {
		t.Errorf("Corrected = %q, ErrorCount = %d", c.Corrected, c.ErrorCount)
	}
	want := []Change{
		{Position: 5, From: 'q', To: 'e'},
		{Position: 10, From: 'q', To: 'x'},
	}
	if !reflect.DeepEqual(c.Changes, want) {
		t.Errorf("Changes = %+v, want %+v", c.Changes, want)
	}
}

func TestSearchErasures_ChecksumRegion(t *testing.T) {
	damaged := []byte(vec1Secret)
	damaged[46] = 'q'
	damaged[47] = 'q'
	res, err := SearchErasures(context.Background(), string(damaged), []int{46, 47}, Options{})
	if err != nil {
		t.Fatalf("SearchErasures: %v", err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].Corrected != vec1Secret {
		t.Fatalf("candidates = %+v, want unique %q", res.Candidates, vec1Secret)
	}
}

func TestSearchErasures_PrefixPositions(t *testing.T) {
	damaged := "qq" + vec1Secret[2:]
	res, err := SearchErasures(context.Background(), damaged, []int{0, 1}, Options{})
	if err != nil {
		t.Fatalf("SearchErasures: %v", err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].Corrected != vec1Secret {
		t.Fatalf("candidates = %+v, want unique %q", res.Candidates, vec1Secret)
	}
}

func TestSearchErasures_IntactInput(t *testing.T) {
	res, err := SearchErasures(context.Background(), vec1Secret, []int{5, 10}, Options{})
	if err != nil {
		t.Fatalf("SearchErasures: %v", err)
	}
	c := res.Candidates[0]
	if c.Corrected != vec1Secret || c.ErrorCount != 2 || len(c.Changes) != 0 {
		t.Errorf("candidate = %+v, want intact string back", c)
	}
}

func TestSearchErasures_NoPositions(t *testing.T) {
	res, err := SearchErasures(context.Background(), vec1Secret, nil, Options{})
	if err != nil {
		t.Fatalf("SearchErasures: %v", err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].ErrorCount != 0 {
		t.Fatalf("candidates = %+v, want the string itself", res.Candidates)
	}

	res, err = SearchErasures(context.Background(), corrOne, nil, Options{})
	if err != nil {
		t.Fatalf("SearchErasures: %v", err)
	}
	if res.Found() || res.Message == "" {
		t.Errorf("damaged string with no erasures should exhaust, got %+v", res)
	}
}

func TestSearchErasures_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		positions []int
		want      error
	}{
		{"empty", "", []int{0}, codex32.ErrMalformed},
		{"too_many", vec1Secret, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, codex32.ErrUncorrectable},
		{"negative", vec1Secret, []int{-1}, codex32.ErrMalformed},
		{"out_of_range", vec1Secret, []int{48}, codex32.ErrMalformed},
		{"duplicate", vec1Secret, []int{5, 5}, codex32.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SearchErasures(context.Background(), tt.input, tt.positions, Options{})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSearchErasures_WorkerCountInvariance(t *testing.T) {
	damaged := []byte(vec1Secret)
	damaged[5] = 'q'
	damaged[10] = 'q'
	one, err := SearchErasures(context.Background(), string(damaged), []int{5, 10}, Options{Workers: 1})
	if err != nil {
		t.Fatalf("Workers 1: %v", err)
	}
	four, err := SearchErasures(context.Background(), string(damaged), []int{5, 10}, Options{Workers: 4})
	if err != nil {
		t.Fatalf("Workers 4: %v", err)
	}
	if !reflect.DeepEqual(one.Candidates, four.Candidates) {
		t.Errorf("worker counts disagree:\n 1: %+v\n 4: %+v", one.Candidates, four.Candidates)
	}
}

func TestEstimateSearchSpace(t *testing.T) {
	tests := []struct {
		length, maxErrors int
		want              int64
	}{
		{48, 1, 45 * 31},
		{48, 2, 45*31 + (45*44/2)*31*31},
		{3, 4, 0},
	}
	for _, tt := range tests {
		if got := EstimateSearchSpace(tt.length, tt.maxErrors); got != tt.want {
			t.Errorf("EstimateSearchSpace(%d, %d) = %d, want %d",
				tt.length, tt.maxErrors, got, tt.want)
		}
	}
}

func TestEstimateSearchSpace_Grows(t *testing.T) {
	prev := int64(0)
	for k := 1; k <= MaxSearchErrors; k++ {
		got := EstimateSearchSpace(48, k)
		if got <= prev {
			t.Fatalf("EstimateSearchSpace(48, %d) = %d, not above %d", k, got, prev)
		}
		prev = got
	}
}

func TestSearch_CandidatesSorted(t *testing.T) {
	res, err := Search(context.Background(), corrTwo, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 1; i < len(res.Candidates); i++ {
		if strings.Compare(res.Candidates[i-1].Corrected, res.Candidates[i].Corrected) > 0 {
			t.Fatalf("candidates not sorted at %d", i)
		}
	}
}
