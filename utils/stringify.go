package utils

import (
	"github.com/fatih/color"
)

var funColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiYellow).SprintFunc())(is...)
}
var blkColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiCyan).SprintFunc())(is...)
}
var nameColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiGreen).SprintFunc())(is...)
}
var insColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiWhite, color.Faint).SprintFunc())(is...)
}

// FunString stylises a function name.
func FunString(name string) string {
	return funColor(name)
}

// BlockString stylises a basic block label.
func BlockString(label string) string {
	return blkColor(label)
}

// VarString stylises a program variable.
func VarString(name string) string {
	return nameColor(name)
}

// StmtString stylises a statement.
func StmtString(stmt string) string {
	return insColor(stmt)
}
