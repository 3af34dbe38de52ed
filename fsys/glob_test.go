package fsys

import "testing"

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern, name string
		want          bool
	}{
		{"*", "ANYTHING", true},
		{"*.TXT", "README.TXT", true},
		{"*.TXT", "README.DAT", false},
		{"FOO?", "FOOX", true},
		{"FOO?", "FOO", false},
		{"FO%BAR", "FOXBAR", true},
		{"FO%BAR", "FOXYBAR", false},
		{"A*B*C", "AxxBxxC", true},
		{"A*B*C", "AxxBxx", false},
		{"", "", true},
		{"", "X", false},
	}
	for _, c := range cases {
		if got := Match(c.pattern, c.name); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.pattern, c.name, got, c.want)
		}
	}
}
