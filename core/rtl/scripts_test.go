package rtl

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		r    rune
		want string
		ok   bool
	}{
		{'א', "Hebrew", true},
		{'ש', "Hebrew", true},
		{0xFB1D, "Hebrew", true}, // presentation forms
		{'م', "Arabic", true},
		{0x0750, "Arabic", true}, // supplement block
		{0xFE70, "Arabic", true}, // presentation forms B
		{0x0712, "Syriac", true},
		{0x0780, "Thaana", true},
		{0x07C0, "NKo", true},
		{0x0840, "Mandaic", true},
		{0x0800, "Samaritan", true},
		{0x10840, "Imperial Aramaic", true},
		{0x10900, "Phoenician", true},
		{0x10880, "Nabataean", true},
		{0x10920, "Lydian", true},
		{0x10980, "Meroitic", true},
		{0x109A0, "Meroitic", true},
		{'a', "", false},
		{'1', "", false},
		{' ', "", false},
		{'!', "", false},
		{'é', "", false},
		{0x4E2D, "", false}, // CJK
	}
	for _, tc := range cases {
		name, ok := Classify(tc.r)
		if name != tc.want || ok != tc.ok {
			t.Fatalf("Classify(%U) = (%q, %v), want (%q, %v)", tc.r, name, ok, tc.want, tc.ok)
		}
	}
}

func TestIsRTL(t *testing.T) {
	if !IsRTL('ש') || !IsRTL('م') {
		t.Fatal("expected Hebrew and Arabic runes to be RTL")
	}
	if IsRTL('x') || IsRTL(' ') {
		t.Fatal("expected LTR runes to be non-RTL")
	}
}

func TestScriptsTableOrder(t *testing.T) {
	table := Scripts()
	if len(table) != 12 {
		t.Fatalf("expected 12 scripts, got %d", len(table))
	}
	if table[0].Name != "Hebrew" || table[1].Name != "Arabic" {
		t.Fatalf("unexpected table order: %s, %s", table[0].Name, table[1].Name)
	}
}
