package binding

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return data
}

func TestInterpolatePaths(t *testing.T) {
	data := decode(t, `{"hero":{"name":"Sir Ragnar","stats":[{"label":"Movement"},{"label":"Attack"}],"body":7}}`)

	cases := map[string]string{
		"${hero.name}":                 "Sir Ragnar",
		"${ hero.stats[1].label } Dice": "Attack Dice",
		"Body ${hero.body}":            "Body 7",
		"${hero.missing}":              "${hero.missing}",
		"${hero.missing|Unknown}":      "Unknown",
		"${hero.name|Unknown}":         "Sir Ragnar",
		"${hero.stats[9].label|-}":     "-",
		"plain":                        "plain",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a} ${b|x}", nil); got != "${a} x" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestMissing(t *testing.T) {
	data := decode(t, `{"a":1}`)
	got := Missing("${a} ${b} ${c|fallback} ${b} ${d[0]}", data)
	want := []string{"b", "d[0]"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing = %v, want %v", got, want)
	}
}

func TestParsePath(t *testing.T) {
	cases := map[string][]step{
		"name":             {{key: "name", index: -1}},
		"hero.stats[1].id": {{key: "hero", index: -1}, {key: "stats", index: -1}, {index: 1}, {key: "id", index: -1}},
		"[0][2]":           {{index: 0}, {index: 2}},
		"a-b_c":            {{key: "a-b_c", index: -1}},
	}
	for in, want := range cases {
		got, err := parsePath(in)
		if err != nil || !reflect.DeepEqual(got, want) {
			t.Fatalf("parsePath(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	for _, bad := range []string{".a", "a.", "a..b", "a.[0]", "a[", "a[x]", "a[-1]", "a[0]b"} {
		if _, err := parsePath(bad); err == nil {
			t.Fatalf("parsePath(%q) should fail", bad)
		}
	}
}

func TestInterpolateMalformedPathUsesFallback(t *testing.T) {
	data := decode(t, `{"a":{"b":"x"},"n":null}`)
	cases := map[string]string{
		"${a..b|?}":    "?",
		"${a..b}":      "${a..b}",
		"${n|none}":    "none",
		"${a.b}${a.b}": "xx",
		"${|empty}":    "empty",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Missing("${a..b} ${n}", data); !reflect.DeepEqual(got, []string{"a..b", "n"}) {
		t.Fatalf("Missing = %v", got)
	}
}
