package layout

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

// fixedCtx 构造一个以 size 为字号、估算测量的 statHeading 上下文（每字符 0.6×size）。
func fixedCtx(text string, size, width, height float64) StrategyContext {
	return StrategyContext{
		Role:       RoleStatHeading,
		Text:       text,
		Bounds:     TextBounds{Width: width, Height: height},
		FontSize:   size,
		LineHeight: size * lineHeightFactor,
		Lines:      []string{text},
		FontFamily: DefaultFontFamily,
		FontWeight: statHeadingFontWeight,
		Prefs:      ConfigFor(RoleStatHeading).DefaultPreferences,
		Measurer:   ApproxMeasurer{},
	}
}

func TestWrapTitleDisabled(t *testing.T) {
	ctx := fixedCtx("Sir Ragnar", 54, 100, 200)
	ctx.Role = RoleTitle
	res := Wrap(ctx)
	if res.Success || res.Layout.StrategyUsed != "wrap-title-disabled" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !reflect.DeepEqual(res.Layout.Lines, []string{"Sir Ragnar"}) {
		t.Fatalf("title lines must be untouched, got %v", res.Layout.Lines)
	}
}

func TestWrapSingleWordUsesMeasuredWrap(t *testing.T) {
	res := Wrap(fixedCtx("Movement", 22, 140, 70))
	if !res.Success || res.Layout.StrategyUsed != "wrap-measured" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestWrapForceTwoLineOffUsesGreedy(t *testing.T) {
	ctx := fixedCtx("Attack Dice Roll Bonus", 10, 100, 200)
	ctx.Prefs.ForceTwoLine = false
	res := Wrap(ctx)
	// 6 per rune: "Attack Dice Roll" = 96, then "Bonus".
	want := []string{"Attack Dice Roll", "Bonus"}
	if res.Layout.StrategyUsed != "wrap-measured" || !reflect.DeepEqual(res.Layout.Lines, want) {
		t.Fatalf("got %+v, want lines %v", res.Layout, want)
	}
}

func TestBalancedWordSplitIsOptimal(t *testing.T) {
	measure := ApproxMeasure(10)
	cases := [][]string{
		strings.Split("Attack Dice Roll Bonus", " "),
		strings.Split("Movement Squares", " "),
		strings.Split("A Very Long Heroic Title Of Doom", " "),
		strings.Split("x yy zzz wwww", " "),
	}
	for _, words := range cases {
		left, right, ok := balancedWordSplit(words, 150, measure)
		if !ok {
			t.Fatalf("%v: expected a split", words)
		}
		got := math.Max(measure(left), measure(right))
		for i := 1; i < len(words); i++ {
			l := measure(strings.Join(words[:i], " "))
			r := measure(strings.Join(words[i:], " "))
			if l <= 150 && r <= 150 && math.Max(l, r) < got {
				t.Fatalf("%v: split at %d (%g) beats chosen %q|%q (%g)", words, i, math.Max(l, r), left, right, got)
			}
		}
		if left+" "+right != strings.Join(words, " ") {
			t.Fatalf("split must preserve words: %q | %q", left, right)
		}
	}

	left, right, _ := balancedWordSplit(strings.Split("Attack Dice Roll Bonus", " "), 100, measure)
	if left != "Attack Dice" || right != "Roll Bonus" {
		t.Fatalf("unexpected split %q | %q", left, right)
	}
	if _, _, ok := balancedWordSplit([]string{"Supercalifragilistic", "x"}, 50, measure); ok {
		t.Fatalf("no split fits, expected ok=false")
	}
}

func TestShrink(t *testing.T) {
	t.Run("skips empty", func(t *testing.T) {
		res := Shrink(fixedCtx("", 22, 10, 10))
		if !res.Success || res.Layout.StrategyUsed != "shrink-skip-empty" {
			t.Fatalf("unexpected result %+v", res)
		}
	})
	t.Run("skips when it fits", func(t *testing.T) {
		res := Shrink(fixedCtx("Hero", 22, 140, 70))
		if !res.Success || res.Layout.StrategyUsed != "shrink-skip-fit" || res.Layout.FontSize != 22 {
			t.Fatalf("unexpected result %+v", res)
		}
	})
	t.Run("clamps to minimum", func(t *testing.T) {
		ctx := fixedCtx("Movement Squares", 22, 140, 70)
		res := Shrink(ctx)
		// 95% of 22 floors to 20; 16 runes at 20 are 192 wide.
		if res.Success || res.Layout.FontSize != 20 {
			t.Fatalf("unexpected result %+v", res)
		}
		if got, want := res.Layout.LineHeight, ctx.LineHeight*20/22; math.Abs(got-want) > 1e-9 {
			t.Fatalf("line height %g, want %g", got, want)
		}
	})
	t.Run("zero percent floors at size 1", func(t *testing.T) {
		ctx := fixedCtx("Movement Squares", 22, 10, 70)
		ctx.Prefs.MinFontPercent = 0
		res := Shrink(ctx)
		// 10/211.2 scales 22 to 1.04, floored to 1.
		if res.Layout.FontSize != 1 {
			t.Fatalf("expected size 1, got %g", res.Layout.FontSize)
		}
	})
	t.Run("succeeds when scaled size fits", func(t *testing.T) {
		ctx := fixedCtx("Movement Squares", 22, 140, 25)
		ctx.Prefs.MinFontPercent = 50
		res := Shrink(ctx)
		if !res.Success || res.Layout.FontSize != 14 {
			t.Fatalf("unexpected result %+v", res)
		}
	})
}

func TestHyphenateNoopForTitle(t *testing.T) {
	ctx := fixedCtx("Supercalifragilistic", 10, 50, 200)
	ctx.Role = RoleTitle
	res := Hyphenate(ctx)
	if res.Layout.StrategyUsed != "hyphenate-noop" || !reflect.DeepEqual(res.Layout.Lines, ctx.Lines) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestHyphenateBalancedSplit(t *testing.T) {
	res := Hyphenate(fixedCtx("Movement", 10, 30, 200))
	want := []string{"Mov-", "ement"}
	if !reflect.DeepEqual(res.Layout.Lines, want) {
		t.Fatalf("got %v, want %v", res.Layout.Lines, want)
	}
}

func TestHyphenateHardChunks(t *testing.T) {
	res := Hyphenate(fixedCtx("Supercalifragilistic", 10, 50, 200))
	want := []string{"Superca-", "lifragi-", "listic"}
	if !reflect.DeepEqual(res.Layout.Lines, want) {
		t.Fatalf("got %v, want %v", res.Layout.Lines, want)
	}
	for _, line := range res.Layout.Lines {
		if w := EstimateTextWidth(line, 10); w > 50 {
			t.Fatalf("line %q is %g wide", line, w)
		}
	}
}

func TestHyphenateTerminatesWhenNothingFits(t *testing.T) {
	text := "Supercalifragilistic"
	res := Hyphenate(fixedCtx(text, 10, 1, 200))
	if len(res.Layout.Lines) != utf8.RuneCountInString(text) {
		t.Fatalf("expected one rune per line, got %v", res.Layout.Lines)
	}
	var rebuilt strings.Builder
	for i, line := range res.Layout.Lines {
		if i < len(res.Layout.Lines)-1 {
			if !strings.HasSuffix(line, hyphenGlyph) {
				t.Fatalf("line %q should end with a hyphen", line)
			}
			line = strings.TrimSuffix(line, hyphenGlyph)
		}
		rebuilt.WriteString(line)
	}
	if rebuilt.String() != text {
		t.Fatalf("chunks lost characters: %q", rebuilt.String())
	}
}

func TestHyphenateRejoinsShortTokens(t *testing.T) {
	ctx := fixedCtx("Movement Squares", 14, 140, 25)
	ctx.Lines = []string{"Movement", "Squares"}
	res := Hyphenate(ctx)
	if !reflect.DeepEqual(res.Layout.Lines, []string{"Movement Squares"}) {
		t.Fatalf("got %v", res.Layout.Lines)
	}
}

func TestHyphenateMultiByte(t *testing.T) {
	res := Hyphenate(fixedCtx("ÜberlängeWörter", 10, 50, 200))
	for _, line := range res.Layout.Lines {
		if !utf8.ValidString(line) {
			t.Fatalf("invalid UTF-8 in %q", line)
		}
	}
}

func TestEllipsisSkips(t *testing.T) {
	cases := map[string]StrategyContext{
		"ellipsis-skip-empty":      fixedCtx("", 22, 10, 10),
		"ellipsis-skip-fit":        fixedCtx("Hero", 22, 140, 70),
		"ellipsis-skip-too-narrow": fixedCtx("Movement", 22, 10, 70),
	}
	for want, ctx := range cases {
		res := Ellipsis(ctx)
		if res.Success || res.Layout.StrategyUsed != want || res.Layout.Ellipsis {
			t.Fatalf("%s: unexpected result %+v", want, res)
		}
	}
}

func TestEllipsisLongestPrefix(t *testing.T) {
	for _, width := range []float64{14, 20, 50, 100, 139, 140, 200} {
		ctx := fixedCtx("Movement Squares", 22, width, 70)
		res := Ellipsis(ctx)
		if !res.Success || !res.Layout.Ellipsis || len(res.Layout.Lines) != 1 {
			t.Fatalf("width %g: unexpected result %+v", width, res)
		}
		measure := ApproxMeasure(22)
		line := res.Layout.Lines[0]
		if measure(line) > width {
			t.Fatalf("width %g: %q does not fit", width, line)
		}
		prefix := []rune(strings.TrimSuffix(line, ellipsisGlyph))
		all := []rune(ctx.Text)
		if len(prefix) < len(all) && measure(string(all[:len(prefix)+1]))+measure(ellipsisGlyph) <= width {
			t.Fatalf("width %g: a longer prefix than %q would fit", width, string(prefix))
		}
	}
}

func TestOverflowMarksLayout(t *testing.T) {
	ctx := fixedCtx("Movement Squares", 22, 10, 10)
	ctx.Lines = []string{"Movement", "Squares"}
	res := Overflow(ctx)
	if !res.Success || !res.Layout.Overflow || !reflect.DeepEqual(res.Layout.Lines, ctx.Lines) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestStrategyFor(t *testing.T) {
	ctx := fixedCtx("Hero", 22, 140, 70)
	want := map[StrategyID]string{
		StrategyWrap:      "wrap-measured",
		StrategyShrink:    "shrink-skip-fit",
		StrategyHyphenate: "hyphenate",
		StrategyEllipsis:  "ellipsis-skip-fit",
		StrategyOverflow:  "overflow",
	}
	for id, used := range want {
		if got := StrategyFor(id)(ctx).Layout.StrategyUsed; got != used {
			t.Fatalf("%s: got %s, want %s", id, got, used)
		}
	}
}
