package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/corey/cefr/internal/adapters/fstindex"
	"github.com/corey/cefr/internal/adapters/socket"
	"github.com/corey/cefr/internal/app"
	"github.com/corey/cefr/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// useColor is set once flags are parsed.
var useColor bool

// c returns code when color output is enabled.
func c(code string) string {
	if !useColor {
		return ""
	}
	return code
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// formatAnalysis formats an analysis for terminal display.
//
//	⚡ B1 │ adjusted 3.21 (lexical 2.71) │ 2 sentences, 18 words │ 1.2ms
//	  A1  ███████████  11  61.1%
//	  ...
func formatAnalysis(r *socket.AnalyzeResult, tokens bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %s%s │ adjusted %.2f (lexical %.2f) │ %d sentences, %d words │ %s\n",
		c(colorBold), r.Level, c(colorReset), r.AdjustedScore, r.LexicalScore,
		r.SentenceCount, r.WordCount, r.Elapsed))

	for _, share := range r.Distribution.Levels {
		if share.Count == 0 {
			continue
		}
		bar := strings.Repeat("█", int(share.Percent/5+0.5))
		sb.WriteString(fmt.Sprintf("  %-8s %s%-20s%s %4d  %5.1f%%\n",
			share.Level, c(colorCyan), bar, c(colorReset), share.Count, share.Percent))
	}

	s, d := r.Syntax, r.Discourse
	sb.WriteString(fmt.Sprintf("  %sclauses%s %.2f/sentence  %spassive%s %.2f  %sconnectives%s %.2f  %sabstract%s %.2f  %sentities%s %.2f\n",
		c(colorGray), c(colorReset), s.ClauseDensity,
		c(colorGray), c(colorReset), s.PassiveRatio,
		c(colorGray), c(colorReset), d.ConnectiveSophistication,
		c(colorGray), c(colorReset), d.AbstractRatio,
		c(colorGray), c(colorReset), d.EntityDensity))

	if len(r.UnknownWords) > 0 {
		sb.WriteString(fmt.Sprintf("  %sunknown:%s %s\n", c(colorYellow), c(colorReset), strings.Join(r.UnknownWords, ", ")))
	}
	sb.WriteString(fmt.Sprintf("  %slexicon:%s %s\n", c(colorGray), c(colorReset), r.Lexicon))

	if tokens {
		for _, t := range r.Tokens {
			marker := ""
			if t.Phrase {
				marker = " " + c(colorMagenta) + "phrase" + c(colorReset)
			}
			sb.WriteString(fmt.Sprintf("    %-18s %-14s %-4s %s%s\n", t.Surface, t.Lemma, t.Tag, t.Level, marker))
		}
	}
	return sb.String()
}

// formatLookup formats a single-word lookup.
func formatLookup(r *socket.LookupResult) string {
	if !r.Found {
		return fmt.Sprintf("%s⚡ %s%s │ not found\n", c(colorBold), r.Word, c(colorReset))
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %s%s │ %s%s%s", c(colorBold), r.Word, c(colorReset), c(colorGreen), r.Best.Level, c(colorReset)))
	if r.Stemmed != "" {
		sb.WriteString(fmt.Sprintf(" │ via stem %s%s%s", c(colorGray), r.Stemmed, c(colorReset)))
	}
	sb.WriteString("\n")
	for _, e := range r.Entries {
		best := " "
		if e == r.Best {
			best = "*"
		}
		sb.WriteString(fmt.Sprintf(" %s %s%-16s%s %-10s %s", best, c(colorCyan), e.Lemma, c(colorReset), e.POS, e.Level))
		if e.Abstract {
			sb.WriteString(" abstract")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatHealth formats a HealthResult for terminal display.
func formatHealth(h *socket.HealthResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ cefr daemon%s\n", c(colorBold), c(colorReset)))
	sb.WriteString(fmt.Sprintf("  Status:   %s%s%s\n", c(colorGreen), h.Status, c(colorReset)))
	sb.WriteString(formatLexiconStats(h.Lexicon))
	sb.WriteString(fmt.Sprintf("  Uptime:   %s\n", h.Uptime))
	return sb.String()
}

func formatLexiconStats(s socket.LexiconStats) string {
	return fmt.Sprintf("  Lexicon:  %s\n  Words:    %d\n  Entries:  %d\n  Phrases:  %d\n",
		s.Name, s.Words, s.Entries, s.Phrases)
}

// formatReload formats a ReloadResult.
func formatReload(r *socket.ReloadResult) string {
	return fmt.Sprintf("%s⚡ lexicon reloaded%s │ %dms\n%s",
		c(colorBold), c(colorReset), r.ElapsedMs, formatLexiconStats(r.Lexicon))
}

// formatLexicons lists stored lexicon snapshots.
func formatLexicons(infos []ports.LexiconInfo) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d stored lexicons%s\n", c(colorBold), len(infos), c(colorReset)))
	for _, info := range infos {
		sb.WriteString(fmt.Sprintf("  %s%-20s%s %7d rows  %s%s%s\n",
			c(colorCyan), info.Name, c(colorReset), info.Rows,
			c(colorGray), info.SavedAt.Local().Format("2006-01-02 15:04"), c(colorReset)))
	}
	return sb.String()
}

// formatImport formats the outcome of a lexicon import.
func formatImport(s app.ImportStats) string {
	out := fmt.Sprintf("%s⚡ imported %d rows%s → %s │ %d words, %d phrases\n",
		c(colorBold), s.Rows, c(colorReset), s.Target, s.Words, s.Phrases)
	if s.Skipped > 0 {
		out += fmt.Sprintf("  %sskipped %d malformed rows%s\n", c(colorYellow), s.Skipped, c(colorReset))
	}
	return out
}

// formatBuildStats formats the outcome of an index build.
func formatBuildStats(s fstindex.BuildStats, fstPath, dataPath string) string {
	return fmt.Sprintf("%s⚡ %d keys%s from %d records (%d duplicates dropped)\n  FST:   %s\n  Data:  %s (%d bytes uncompressed)\n",
		c(colorBold), s.Keys, c(colorReset), s.Input, s.Duplicates, fstPath, dataPath, s.DataBytes)
}

// indexHit is one `index lookup` answer.
type indexHit struct {
	Word    string          `json:"word"`
	Offset  uint64          `json:"offset"`
	Record  fstindex.Record `json:"record"`
	Entries []ports.Entry   `json:"entries"`
}

func formatIndexHit(h indexHit) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %s%s │ offset %d\n", c(colorBold), h.Word, c(colorReset), h.Offset))
	field := func(name, value string) {
		if value != "" {
			sb.WriteString(fmt.Sprintf("  %s%-12s%s %s\n", c(colorGray), name, c(colorReset), value))
		}
	}
	field("phonetic", h.Record.Phonetic)
	field("definition", strings.ReplaceAll(h.Record.Definition, `\n`, "; "))
	field("translation", strings.ReplaceAll(h.Record.Translation, `\n`, "; "))
	field("tag", h.Record.Tag)
	field("exchange", h.Record.Exchange)
	for _, e := range h.Entries {
		sb.WriteString(fmt.Sprintf("  %s%-16s%s %-10s %s\n", c(colorCyan), e.Lemma, c(colorReset), e.POS, e.Level))
	}
	return sb.String()
}
