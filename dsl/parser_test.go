package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/textfit/dsl"
	"github.com/ByLCY/textfit/layout"
)

const sampleDSL = `
// hero card headings
batch HeroCards {
  title "Sir Ragnar the Bold" bounds 300 60
  statHeading "Movement Squares" bounds 140 70 {
    forceTwoLine: true
    minFontPercent: 70%
  }
  # stat headings only honour their own keys
  statHeading "${hero.stat|Attack Dice}" bounds 140pt 25 { preferEllipsis: true; allowWrap: false }
}
`

func TestParseBatch(t *testing.T) {
	b, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if b.Name != "HeroCards" {
		t.Fatalf("expected batch name HeroCards, got %s", b.Name)
	}
	if len(b.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(b.Items))
	}

	first := b.Items[0]
	if first.Role != "title" || string(first.Text) != "Sir Ragnar the Bold" {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if first.Width != "300" || first.Height != "60" || first.Prefs != nil {
		t.Fatalf("unexpected first item bounds/prefs: %+v", first)
	}

	second := b.Items[1]
	if second.Prefs == nil || len(second.Prefs.Assignments) != 2 {
		t.Fatalf("expected 2 assignments on second item, got %+v", second.Prefs)
	}
	force := second.Prefs.Assignments[0]
	if force.Key != "forceTwoLine" || force.Value.Bool == nil || !bool(*force.Value.Bool) {
		t.Fatalf("unexpected assignment %+v", force)
	}
	if got := *second.Prefs.Assignments[1].Value.Number; got != "70%" {
		t.Fatalf("expected 70%%, got %s", got)
	}

	third := b.Items[2]
	if third.Width != "140pt" || len(third.Prefs.Assignments) != 2 {
		t.Fatalf("unexpected third item: %+v", third)
	}
}

func TestParseRejectsMissingBounds(t *testing.T) {
	if _, err := dsl.ParseString(`batch X { title "A" 10 10 }`); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCompile(t *testing.T) {
	b, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	jobs, err := dsl.Compile(b, map[string]any{"hero": map[string]any{"stat": "Defend Dice"}})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].Role != layout.RoleTitle || jobs[0].Bounds != (layout.TextBounds{Width: 300, Height: 60}) {
		t.Fatalf("unexpected job 0: %+v", jobs[0])
	}
	if jobs[0].Line != 4 {
		t.Fatalf("expected job 0 on line 4, got %d", jobs[0].Line)
	}

	p := jobs[1].Prefs
	if p == nil || p.ForceTwoLine == nil || !*p.ForceTwoLine {
		t.Fatalf("expected forceTwoLine on job 1, got %+v", p)
	}
	if p.MinFontPercent == nil || *p.MinFontPercent != 70 {
		t.Fatalf("expected minFontPercent 70, got %+v", p.MinFontPercent)
	}

	third := jobs[2]
	if third.Text != "Defend Dice" {
		t.Fatalf("expected interpolated text, got %q", third.Text)
	}
	// allowWrap is a title-only preference and is dropped for stat headings.
	if third.Prefs.AllowWrap != nil || third.Prefs.PreferEllipsis == nil {
		t.Fatalf("unexpected stat heading prefs: %+v", third.Prefs)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := map[string]string{
		`batch X { caption "A" bounds 10 10 }`:                   "caption",
		`batch X { title "A" bounds 0 10 }`:                      "",
		`batch X { title "A" bounds 10 10 { shout: true } }`:     "shout",
		`batch X { title "A" bounds 10 10 { allowWrap: 50 } }`:   "allowWrap",
		`batch X { title "A" bounds 10 10 { minFontPercent: "x" } }`: "minFontPercent",
	}
	for src, fragment := range cases {
		b, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("parse %q failed: %v", src, err)
		}
		_, err = dsl.Compile(b, nil)
		if err == nil {
			t.Fatalf("expected compile error for %q", src)
		}
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("error %q should mention %q", err, fragment)
		}
	}
}
