package rtl

import "strings"

// Segment is a maximal run of text that is either entirely inside the union
// of the RTL ranges or entirely outside it.
type Segment struct {
	Text string
	RTL  bool
}

// CharRecorder receives every examined character for script tallying.
// *stats.Collector satisfies it.
type CharRecorder interface {
	RecordCharacters(text string)
}

// Split partitions text into alternating RTL and non-RTL segments, preserving
// order and content. Run membership only requires each rune to be in the
// union of all script ranges; a single run may span several scripts.
func Split(text string) []Segment {
	if text == "" {
		return nil
	}
	var segs []Segment
	var cur strings.Builder
	curRTL := false
	started := false

	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, Segment{Text: cur.String(), RTL: curRTL})
			cur.Reset()
		}
	}

	for _, r := range text {
		rtl := IsRTL(r)
		if started && rtl != curRTL {
			flush()
		}
		curRTL = rtl
		started = true
		cur.WriteRune(r)
	}
	flush()
	return segs
}

// ReverseSegments reverses every RTL run in text while leaving surrounding
// text untouched. When rec is non-nil every rune of the original text is
// tallied exactly once. Reversal is code-point-wise: no combining-mark or
// bracket-mirroring handling, so output length always equals input length
// and applying the operation twice restores the input.
func ReverseSegments(text string, rec CharRecorder) string {
	if text == "" {
		return text
	}
	if rec != nil {
		rec.RecordCharacters(text)
	}

	segs := Split(text)
	changed := false
	for _, s := range segs {
		if s.RTL {
			changed = true
			break
		}
	}
	if !changed {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, s := range segs {
		if s.RTL {
			b.WriteString(reverseRunes(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
