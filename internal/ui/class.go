package ui

import (
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate -path ../..

// Class merges class lists, later entries winning on conflicts ("px-2" then "px-4" gives "px-4").
func Class(classes ...string) string {
	return twmerge.Merge(strings.Join(classes, " "))
}
