package indenter

import "testing"

func TestIndenter(t *testing.T) {
	tests := []struct {
		got, exp string
	}{
		{Indenter().Start("{").NestStrings().End("}"), "{}"},
		{Indenter().Start("{").NestStrings("x").End("}"), "{x}"},
		{Indenter().Start("{").NestStringsSep(",", "x", "y").End("}"), "{\n  x,\n  y\n}"},
		{
			Indenter().Start("[").NestStrings(
				"a",
				Indenter().Start("{").NestStrings("b", "c").End("}"),
			).End("]"),
			"[\n  a\n  {\n    b\n    c\n  }\n]",
		},
	}

	for _, test := range tests {
		if test.got != test.exp {
			t.Errorf("expected\n%s\ngot\n%s", test.exp, test.got)
		}
	}
}
