package quantity

import (
	"regexp"
	"strings"
)

// ExtractNumberList returns a list of numbers. With a label, the list is
// read right after the label, either as a bracketed literal ("[1, 2, 3]",
// "{1, 2, 3}") or as a comma/semicolon separated run ("2, 4, 4 and 5").
// Without a label, the first bracketed literal in text is used.
func ExtractNumberList(text string, label *regexp.Regexp) ([]float64, bool) {
	if label == nil {
		depth := 0
		for i := 0; i < len(text); i++ {
			switch text[i] {
			case '[', '{':
				if depth == 0 {
					if xs, ok := bracketList(text[i:]); ok {
						return xs, true
					}
				}
				depth++
			case ']', '}':
				if depth > 0 {
					depth--
				}
			}
		}
		return nil, false
	}
	for _, loc := range label.FindAllStringIndex(text, -1) {
		rest := text[loc[1]:]
		if i := strings.IndexAny(rest, "[{"); i >= 0 && i <= maxGap && acceptableGap(rest[:i]) && !containsDigit(rest[:i]) {
			if xs, ok := bracketList(rest[i:]); ok {
				return xs, true
			}
		}
		if xs, ok := runList(rest); ok {
			return xs, true
		}
	}
	return nil, false
}

// bracketList parses a flat bracketed list starting at s[0].
func bracketList(s string) ([]float64, bool) {
	if s == "" {
		return nil, false
	}
	closer := byte(']')
	if s[0] == '{' {
		closer = '}'
	}
	end := strings.IndexByte(s, closer)
	if end < 0 {
		return nil, false
	}
	body := s[1:end]
	if strings.ContainsAny(body, "[{") {
		return nil, false
	}
	fields := strings.FieldsFunc(body, func(r rune) bool { return r == ',' || r == ';' || r == ' ' })
	xs := make([]float64, 0, len(fields))
	for _, f := range fields {
		ms := scanNumbers(f)
		if len(ms) != 1 || strings.TrimSpace(f[:ms[0].start]) != "" {
			return nil, false
		}
		xs = append(xs, ms[0].value)
	}
	if len(xs) == 0 {
		return nil, false
	}
	return xs, true
}

var listSeparator = regexp.MustCompile(`^\s*(?:,\s*(?:and\s+)?|;\s*|\s+and\s+)`)

// runList reads "n1, n2, n3" after a label, allowing a short gap before the
// first number.
func runList(rest string) ([]float64, bool) {
	nums := scanNumbers(rest)
	if len(nums) < 2 || !acceptableGap(rest[:nums[0].start]) {
		return nil, false
	}
	xs := []float64{nums[0].value}
	for i := 1; i < len(nums); i++ {
		between := rest[nums[i-1].end:nums[i].start]
		if !listSeparator.MatchString(between) || len(strings.TrimSpace(listSeparator.ReplaceAllString(between, ""))) > 0 {
			break
		}
		xs = append(xs, nums[i].value)
	}
	if len(xs) < 2 {
		return nil, false
	}
	return xs, true
}

// ExtractMatrix returns a matrix literal: nested brackets ("[[1,2],[3,4]]")
// or rows separated by semicolons ("[1 2; 3 4]"). With a label the literal
// must follow the label. Rows must all have the same length.
func ExtractMatrix(text string, label *regexp.Regexp) ([][]float64, bool) {
	var starts []int
	if label == nil {
		for i := 0; i < len(text); i++ {
			if text[i] == '[' || text[i] == '{' {
				starts = append(starts, i)
			}
		}
	} else {
		for _, loc := range label.FindAllStringIndex(text, -1) {
			rest := text[loc[1]:]
			if i := strings.IndexAny(rest, "[{"); i >= 0 && i <= maxGap && !containsDigit(rest[:i]) {
				starts = append(starts, loc[1]+i)
			}
		}
	}
	for _, st := range starts {
		if m, ok := matrixAt(text[st:]); ok {
			return m, true
		}
	}
	return nil, false
}

func matrixAt(s string) ([][]float64, bool) {
	end := matchingBracket(s)
	if end < 0 {
		return nil, false
	}
	body := strings.TrimSpace(s[1:end])
	var rows [][]float64
	if strings.HasPrefix(body, "[") || strings.HasPrefix(body, "{") {
		for body != "" {
			body = strings.TrimLeft(body, " ,;")
			if body == "" {
				break
			}
			if body[0] != '[' && body[0] != '{' {
				return nil, false
			}
			e := matchingBracket(body)
			if e < 0 {
				return nil, false
			}
			row, ok := bracketList(body[:e+1])
			if !ok {
				return nil, false
			}
			rows = append(rows, row)
			body = body[e+1:]
		}
	} else if strings.Contains(body, ";") {
		for _, part := range strings.Split(body, ";") {
			row, ok := bracketList("[" + part + "]")
			if !ok {
				return nil, false
			}
			rows = append(rows, row)
		}
	} else {
		return nil, false
	}
	if len(rows) == 0 {
		return nil, false
	}
	for _, r := range rows {
		if len(r) != len(rows[0]) {
			return nil, false
		}
	}
	return rows, true
}

// matchingBracket returns the index of the bracket closing s[0], or -1.
func matchingBracket(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
