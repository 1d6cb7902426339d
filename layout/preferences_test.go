package layout

import (
	"math"
	"reflect"
	"testing"
)

func TestResolveNilUsesDefaults(t *testing.T) {
	var p *Preferences
	for _, role := range Roles {
		if got, want := p.Resolve(role), ConfigFor(role).DefaultPreferences; got != want {
			t.Fatalf("%s: got %+v, want %+v", role, got, want)
		}
	}
}

func TestResolveOverridesPerField(t *testing.T) {
	p := &Preferences{MinFontPercent: Percent(60), PreferEllipsis: Bool(true)}
	got := p.Resolve(RoleStatHeading)
	want := ResolvedPreferences{MinFontPercent: 60, ForceTwoLine: true, PreferEllipsis: true}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveClampsPercents(t *testing.T) {
	p := &Preferences{MinFontPercent: Percent(0), TwoLineMinPercent: Percent(140)}
	got := p.Resolve(RoleTitle)
	if got.MinFontPercent != 50 || got.TwoLineMinPercent != 100 {
		t.Fatalf("expected clamped percents, got %+v", got)
	}

	// 引擎中 minFontPercent=0 按 50% 收缩，而不是退到任意下限
	res := New(Options{}).Fit(RoleStatHeading, "Movement Squares", TextBounds{Width: 10, Height: 70}, &Preferences{MinFontPercent: Percent(0)})
	shrunk := false
	for _, a := range res.Attempts {
		if a.StrategyUsed != "shrink" {
			continue
		}
		shrunk = true
		if a.FontSize != 11 {
			t.Fatalf("expected shrink to stop at 11, got %g", a.FontSize)
		}
	}
	if !shrunk {
		t.Fatalf("no shrink attempt in %+v", res.Attempts)
	}
}

func TestClampPercent(t *testing.T) {
	cases := map[float64]float64{
		10:          50,
		50:          50,
		75:          75,
		100:         100,
		250:         100,
		-3:          50,
		math.Inf(1): 100,
	}
	for in, want := range cases {
		if got := ClampPercent(in); got != want {
			t.Fatalf("ClampPercent(%g) = %g, want %g", in, got, want)
		}
	}
	if got := ClampPercent(math.NaN()); got != 50 {
		t.Fatalf("NaN should clamp to 50, got %g", got)
	}
}

func TestSanitizeDropsForeignFields(t *testing.T) {
	all := Preferences{
		AllowWrap:         Bool(true),
		MinFontPercent:    Percent(30),
		TwoLineMinPercent: Percent(120),
		AllowOverflow:     Bool(true),
		ForceTwoLine:      Bool(false),
		PreferEllipsis:    Bool(true),
	}

	title := all.Sanitize(RoleTitle)
	if title.ForceTwoLine != nil {
		t.Fatalf("title must not keep forceTwoLine")
	}
	if *title.MinFontPercent != 50 || *title.TwoLineMinPercent != 100 || !*title.AllowWrap {
		t.Fatalf("unexpected title prefs %+v", title)
	}

	stat := all.Sanitize(RoleStatHeading)
	if stat.AllowWrap != nil || stat.TwoLineMinPercent != nil {
		t.Fatalf("statHeading must not keep title-only fields: %+v", stat)
	}
	if stat.ForceTwoLine == nil || *stat.ForceTwoLine || !*stat.PreferEllipsis || !*stat.AllowOverflow {
		t.Fatalf("unexpected statHeading prefs %+v", stat)
	}

	// 清洗不修改原值
	if *all.MinFontPercent != 30 {
		t.Fatalf("Sanitize mutated its receiver")
	}
}

func TestSanitizeMap(t *testing.T) {
	raw := map[string]any{
		"allowWrap":         "yes",
		"minFontPercent":    30.0,
		"twoLineMinPercent": "85",
		"allowOverflow":     true,
		"forceTwoLine":      true,
		"preferEllipsis":    1,
		"unknown":           true,
	}
	got := SanitizeMap(RoleTitle, raw)
	want := Preferences{MinFontPercent: Percent(50), AllowOverflow: Bool(true)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	got = SanitizeMap(RoleStatHeading, raw)
	want = Preferences{MinFontPercent: Percent(50), AllowOverflow: Bool(true), ForceTwoLine: Bool(true)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestOverlay(t *testing.T) {
	base := DefaultPreferences(RoleTitle)
	out := base.Overlay(Preferences{AllowWrap: Bool(true)})
	if !*out.AllowWrap || *out.MinFontPercent != 75 {
		t.Fatalf("unexpected overlay %+v", out)
	}
	if *base.AllowWrap {
		t.Fatalf("Overlay must not alias the updates")
	}
}

func TestMergePreferences(t *testing.T) {
	base := DefaultPreferences(RoleStatHeading)
	merged := MergePreferences(RoleStatHeading, base, Preferences{
		MinFontPercent: Percent(200),
		AllowWrap:      Bool(true),
	})
	if *merged.MinFontPercent != 100 {
		t.Fatalf("expected clamped percent, got %g", *merged.MinFontPercent)
	}
	if merged.AllowWrap != nil {
		t.Fatalf("statHeading merge must drop allowWrap")
	}
	if !*merged.ForceTwoLine {
		t.Fatalf("untouched defaults must survive the merge")
	}

	// 合并结果再次清洗保持不变
	if again := merged.Sanitize(RoleStatHeading); !reflect.DeepEqual(again, merged) {
		t.Fatalf("merge result is not stable under Sanitize: %+v vs %+v", again, merged)
	}
}

func TestDefaultPreferencesRoleOwnedOnly(t *testing.T) {
	title := DefaultPreferences(RoleTitle)
	if title.ForceTwoLine != nil || title.AllowWrap == nil || title.TwoLineMinPercent == nil {
		t.Fatalf("unexpected title defaults %+v", title)
	}
	stat := DefaultPreferences(RoleStatHeading)
	if stat.AllowWrap != nil || stat.TwoLineMinPercent != nil || stat.ForceTwoLine == nil {
		t.Fatalf("unexpected statHeading defaults %+v", stat)
	}
	if got := stat.Resolve(RoleStatHeading); got != ConfigFor(RoleStatHeading).DefaultPreferences {
		t.Fatalf("defaults must resolve to themselves, got %+v", got)
	}
}
