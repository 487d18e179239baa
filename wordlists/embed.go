// Package wordlists embeds the closed word classes the analyzers consult:
// clause markers, be-verbs, irregular participles, pronouns, name and title
// sets, contraction tables and abstract-noun suffixes.
//
// Usage:
//
//	wordlist.Load(wordlists.FS, ".")
package wordlists

import "embed"

//go:embed *.yaml
var FS embed.FS
