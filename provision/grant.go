package provision

import (
	"regexp"
	"strings"
)

// GrantExtractor recovers the names of grantable objects (tables, sequences)
// from a creation-SQL asset. The engine is indifferent to how: the default
// is a textual line scan, but a real SQL parser can be dropped in.
type GrantExtractor interface {
	Extract(sqlText string) []string
}

// LineScanExtractor scans SQL text line by line for CREATE TABLE and ALTER
// SEQUENCE ... MAXVALUE statements. It trusts the formatting conventions of
// the bundled schema assets rather than parsing SQL.
type LineScanExtractor struct {
	table *regexp.Regexp
	seq   *regexp.Regexp
}

// NewLineScanExtractor returns the default grant-target extractor.
func NewLineScanExtractor() *LineScanExtractor {
	return &LineScanExtractor{
		table: regexp.MustCompile(`(?i)CREATE TABLE\s+(\S+)`),
		seq:   regexp.MustCompile(`(?i)ALTER SEQUENCE\s+(\S+)\s+MAXVALUE`),
	}
}

// Extract returns every object name matched in sqlText, in order of
// appearance.
func (x *LineScanExtractor) Extract(sqlText string) []string {
	var objects []string
	for _, line := range strings.Split(sqlText, "\n") {
		if m := x.table.FindStringSubmatch(line); m != nil {
			objects = append(objects, trimIdent(m[1]))
		}
		if m := x.seq.FindStringSubmatch(line); m != nil {
			objects = append(objects, trimIdent(m[1]))
		}
	}
	return objects
}

func trimIdent(name string) string {
	return strings.Trim(name, "`\"(")
}
