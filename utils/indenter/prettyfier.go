// Package indenter builds indented, nested string representations of
// structured values such as abstract states and analysis results.
package indenter

import (
	"fmt"
	"strings"
)

const unit = "  "

type indenter struct {
	buf string
}

func Indenter() indenter {
	return indenter{}
}

func (indenter) Start(str string) indenter {
	return indenter{buf: str}
}

// indentLines indents every line of a nested, possibly multi-line string.
func indentLines(str string) string {
	return unit + strings.ReplaceAll(str, "\n", "\n"+unit)
}

func (i indenter) NestStrings(strs ...string) indenter {
	return i.NestStringsSep("", strs...)
}

func (i indenter) NestStringsSep(sep string, strs ...string) indenter {
	thunks := make([]func() string, len(strs))
	for j, s := range strs {
		s := s
		thunks[j] = func() string { return s }
	}
	return i.NestThunkedSep(sep, thunks...)
}

func (i indenter) Nest(strs ...fmt.Stringer) indenter {
	return i.NestSep("", strs...)
}

func (i indenter) NestSep(sep string, strs ...fmt.Stringer) indenter {
	thunks := make([]func() string, len(strs))
	for j, s := range strs {
		thunks[j] = s.String
	}
	return i.NestThunkedSep(sep, thunks...)
}

// NestThunkedSep nests the given strings on separate, indented lines. A single
// string is appended inline.
func (i indenter) NestThunkedSep(sep string, strs ...func() string) indenter {
	switch len(strs) {
	case 0:
		return i
	case 1:
		return indenter{buf: i.buf + strs[0]()}
	}

	var b strings.Builder
	b.WriteString(i.buf)
	for j, str := range strs {
		b.WriteString("\n")
		b.WriteString(indentLines(str()))
		if j < len(strs)-1 {
			b.WriteString(sep)
		}
	}
	b.WriteString("\n")
	return indenter{buf: b.String()}
}

func (i indenter) End(str string) string {
	return i.buf + str
}
