package quantity

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	// maxGap is the most characters allowed between a label and its number.
	maxGap = 25

	// unitWindow is how many characters after a number are searched for a unit.
	unitWindow = 12
)

// Label builds a label pattern. Symbols are case-sensitive and must be
// followed by "=" or ":" ("v0 =", "R:"). Words are case-insensitive and
// match on word boundaries ("initial velocity"). Either list may be empty.
func Label(symbols, words []string) *regexp.Regexp {
	var parts []string
	if len(symbols) > 0 {
		qs := make([]string, len(symbols))
		for i, s := range symbols {
			qs[i] = regexp.QuoteMeta(s)
		}
		parts = append(parts, `(?:^|[^A-Za-z0-9_])(?:`+strings.Join(qs, "|")+`)\s*[=:]`)
	}
	if len(words) > 0 {
		qs := make([]string, len(words))
		for i, w := range words {
			qs[i] = strings.ReplaceAll(regexp.QuoteMeta(w), ` `, `\s+`)
		}
		parts = append(parts, `(?i:\b(?:`+strings.Join(qs, "|")+`)\b)`)
	}
	if len(parts) == 0 {
		return regexp.MustCompile(`$^`)
	}
	return regexp.MustCompile(strings.Join(parts, "|"))
}

// FindValue returns the first number following a match of label, with a
// unit token from hints when one appears right after the number. When no
// hint matches, Unit is empty and the caller assumes the base unit.
func FindValue(text string, label *regexp.Regexp, hints []string) (Quantity, bool) {
	q, _, ok := findValue(text, label, hints)
	return q, ok
}

// FindValueDecimals is FindValue that also reports how many decimal places
// the number was written with.
func FindValueDecimals(text string, label *regexp.Regexp, hints []string) (Quantity, int, bool) {
	q, m, ok := findValue(text, label, hints)
	return q, m.decimals, ok
}

// Find reads a labeled value and converts it to the base unit of kind.
func Find(text string, label *regexp.Regexp, kind *Kind) (float64, bool) {
	q, ok := FindValue(text, label, kind.Units())
	if !ok {
		return 0, false
	}
	return kind.ToBase(q.Value, q.Unit)
}

// FindRaw reads a labeled number without looking for a unit.
func FindRaw(text string, label *regexp.Regexp) (float64, bool) {
	q, ok := FindValue(text, label, nil)
	return q.Value, ok
}

// FindPercent reads a labeled rate. A trailing "%" divides by 100.
func FindPercent(text string, label *regexp.Regexp) (float64, bool) {
	q, m, ok := findValue(text, label, nil)
	if !ok {
		return 0, false
	}
	if isPercentAt(text, m.end) {
		return q.Value / 100, true
	}
	return q.Value, true
}

func findValue(text string, label *regexp.Regexp, hints []string) (Quantity, numberMatch, bool) {
	if label == nil {
		return Quantity{}, numberMatch{}, false
	}
	for _, loc := range label.FindAllStringIndex(text, -1) {
		rest := text[loc[1]:]
		nums := scanNumbers(rest)
		if len(nums) == 0 {
			continue
		}
		m := nums[0]
		if !acceptableGap(rest[:m.start]) {
			continue
		}
		unit := matchUnit(rest[m.end:], hints)
		m.start += loc[1]
		m.end += loc[1]
		return Quantity{Value: m.value, Unit: unit}, m, true
	}
	return Quantity{}, numberMatch{}, false
}

// acceptableGap reports whether the text between a label and a number
// still plausibly connects them: it is short, does not cross a sentence
// break, and does not run into another labeled clause after a comma.
func acceptableGap(gap string) bool {
	if len(gap) > maxGap {
		return false
	}
	if strings.ContainsAny(gap, ";?!\n") {
		return false
	}
	if strings.Contains(gap, ". ") {
		return false
	}
	if i := strings.LastIndexByte(gap, ','); i >= 0 {
		for _, w := range strings.Fields(gap[i+1:]) {
			if letters(w) >= 3 {
				return false
			}
		}
	}
	return true
}

func letters(w string) int {
	n := 0
	for i := 0; i < len(w); i++ {
		if w[i] >= 'a' && w[i] <= 'z' || w[i] >= 'A' && w[i] <= 'Z' {
			n++
		}
	}
	return n
}

// matchUnit returns the longest hint that starts the trailing window and is
// not immediately followed by another letter.
func matchUnit(after string, hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	w := strings.TrimLeft(after, " ")
	if len(w) > unitWindow {
		w = w[:unitWindow]
	}
	sorted := make([]string, len(hints))
	copy(sorted, hints)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for _, h := range sorted {
		if h == "" || !strings.HasPrefix(w, h) {
			continue
		}
		if len(w) > len(h) && isIdentByte(w[len(h)]) && isIdentByte(h[len(h)-1]) {
			continue
		}
		return h
	}
	return ""
}

var indexedPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9_])([A-Za-z]+)_?(\d+)\s*=\s*`)

// Indexed holds the values of indexed symbols keyed by subscript.
type Indexed map[int]float64

// Get returns the value with subscript i.
func (x Indexed) Get(i int) (float64, bool) {
	v, ok := x[i]
	return v, ok
}

// Has reports whether every subscript in is is present.
func (x Indexed) Has(is ...int) bool {
	for _, i := range is {
		if _, ok := x[i]; !ok {
			return false
		}
	}
	return true
}

// Values returns the values in subscript order.
func (x Indexed) Values() []float64 {
	keys := make([]int, 0, len(x))
	for k := range x {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = x[k]
	}
	return out
}

// FindIndexed returns the values of indexed symbols with the given prefix
// ("R" matches R1, R2, R_3) keyed by subscript, converted with kind. The
// first value written for a subscript wins.
func FindIndexed(text, prefix string, kind *Kind) Indexed {
	out := Indexed{}
	for _, loc := range indexedPattern.FindAllStringSubmatchIndex(text, -1) {
		if text[loc[2]:loc[3]] != prefix {
			continue
		}
		idx, err := strconv.Atoi(text[loc[4]:loc[5]])
		if err != nil {
			continue
		}
		if _, seen := out[idx]; seen {
			continue
		}
		rest := text[loc[1]:]
		nums := scanNumbers(rest)
		if len(nums) == 0 || nums[0].start != 0 {
			continue
		}
		v := nums[0].value
		if kind != nil {
			unit := matchUnit(rest[nums[0].end:], kind.Units())
			c, ok := kind.ToBase(v, unit)
			if !ok {
				continue
			}
			v = c
		}
		out[idx] = v
	}
	return out
}
