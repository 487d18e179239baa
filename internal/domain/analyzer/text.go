package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/corey/cefr/internal/domain/wordlist"
	"github.com/corey/cefr/internal/ports"
)

// apostrophes folds typographic apostrophes onto ASCII so contraction tables match.
var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// Normalize composes text to NFC and folds curly apostrophes.
func Normalize(text string) string {
	return apostrophes.Replace(norm.NFC.String(text))
}

// SplitSentences splits text after runs of '.', '!' or '?'. The terminator
// stays with its sentence. A '.' does not split after a title ("Mr.") or
// between digits ("3.5"). Whitespace-only segments are dropped.
func SplitSentences(text string, titles wordlist.Set) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if c == '.' && (afterTitle(text[start:i], titles) || betweenDigits(text, i)) {
			continue
		}
		end := i + 1
		for end < len(text) && isTerminator(text[end]) {
			end++
		}
		if seg := strings.TrimSpace(text[start:end]); seg != "" {
			out = append(out, seg)
		}
		start = end
		i = end - 1
	}
	if seg := strings.TrimSpace(text[start:]); seg != "" {
		out = append(out, seg)
	}
	return out
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func afterTitle(prefix string, titles wordlist.Set) bool {
	if prefix == "" || !isWordByte(prefix[len(prefix)-1]) {
		return false
	}
	j := strings.LastIndexFunc(prefix, unicode.IsSpace)
	word := strings.TrimLeftFunc(prefix[j+1:], notWord)
	return titles.Has(word)
}

func betweenDigits(text string, i int) bool {
	return i > 0 && i+1 < len(text) && isDigit(text[i-1]) && isDigit(text[i+1])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordByte(c byte) bool {
	return c >= utf8.RuneSelf || isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

func notWord(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Tokenize splits a sentence on whitespace, strips leading and trailing
// non-alphanumerics and expands contractions. Punctuation stripped from the
// end of a word is kept in the token's Trail; a bare punctuation field is
// appended to the previous token's Trail.
func Tokenize(sentence string, lists *wordlist.Lists) ports.Sentence {
	var out ports.Sentence
	for _, field := range strings.Fields(sentence) {
		core := strings.TrimLeftFunc(field, notWord)
		trimmed := strings.TrimRightFunc(core, notWord)
		trail := core[len(trimmed):]
		core = trimmed

		if core == "" {
			if len(out) > 0 {
				out[len(out)-1].Trail += field
			}
			continue
		}
		// The abbreviation dot of a title does not end a clause.
		if strings.HasPrefix(trail, ".") && lists.Titles.Has(core) {
			trail = trail[1:]
		}

		words := expand(core, lists)
		for i, w := range words {
			tok := ports.Token{Surface: w}
			if i == len(words)-1 {
				tok.Trail = trail
			}
			out = append(out, tok)
		}
	}
	return out
}

// expand returns one or two tokens for word. Whole-word contractions are
// looked up first ("won't"), then suffix contractions ("n't", "'re").
// Possessive "'s" and "'d" forms not in the table are returned intact.
func expand(word string, lists *wordlist.Lists) []string {
	lower := strings.ToLower(word)
	if exp, ok := lists.Contractions[lower]; ok {
		out := make([]string, len(exp))
		copy(out, exp)
		if startsUpper(word) {
			out[0] = capitalize(out[0])
		}
		return out
	}
	for _, s := range lists.ContractionSuffixes {
		if len(lower) > len(s.Suffix) && strings.HasSuffix(lower, s.Suffix) {
			return []string{word[:len(word)-len(s.Suffix)], s.Expansion}
		}
	}
	return []string{word}
}

func startsUpper(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

func capitalize(word string) string {
	r, n := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[n:]
}
