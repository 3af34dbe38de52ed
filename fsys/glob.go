package fsys

// Match implements the tri-mode glob spec.md §6 requires for list_dir:
// `*` matches any run of characters (including none), `?` matches any
// single character, and `%` (RT-11's wildcard) also matches exactly one
// character — kept distinct from `?` so callers can special-case it
// per field (name vs. extension) if a format ever needs to. No stdlib
// or ecosystem matcher covers this mix (path/filepath.Match has no `%`
// and treats `*` as "no path separator", which doesn't apply here), so
// it's hand-rolled as a small recursive matcher.
func Match(pattern, name string) bool {
	return match([]rune(pattern), []rune(name))
}

func match(pat, name []rune) bool {
	for len(pat) > 0 {
		switch pat[0] {
		case '*':
			// Try every possible split; a trailing '*' matches the rest.
			for i := 0; i <= len(name); i++ {
				if match(pat[1:], name[i:]) {
					return true
				}
			}
			return false
		case '?', '%':
			if len(name) == 0 {
				return false
			}
			pat, name = pat[1:], name[1:]
		default:
			if len(name) == 0 || name[0] != pat[0] {
				return false
			}
			pat, name = pat[1:], name[1:]
		}
	}
	return len(name) == 0
}
