package varc

// Match implements the archive's glob dialect: '*' matches any run of bytes
// including the empty run, '?' matches exactly one byte. No character
// classes, no escaping, case-sensitive, whole-string. Classic two-pointer
// matcher with single-star backtracking.
func Match(path, pattern string) bool {
	p, s := 0, 0
	star, mark := -1, 0

	for s < len(path) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == path[s]):
			p++
			s++
		case p < len(pattern) && pattern[p] == '*':
			star = p
			mark = s
			p++
		case star >= 0:
			p = star + 1
			mark++
			s = mark
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
