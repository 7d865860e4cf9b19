package exception

import (
	"regexp"
	"strings"
)

// Type is the inferred category of a payroll exception.
type Type string

const (
	TypeMissingBankDetails Type = "MISSING_BANK_DETAILS"
	TypeNegativeNetPay     Type = "NEGATIVE_NET_PAY"
	TypeExcessivePenalties Type = "EXCESSIVE_PENALTIES"
	TypeZeroBaseSalary     Type = "ZERO_BASE_SALARY"
	TypeCalculationError   Type = "CALCULATION_ERROR"
)

// Status is the inferred resolution state of an exception.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

// Classification is everything derivable from one raw exception string. The
// backend models exceptions as free text, so this is a lossy, best-effort
// adapter; the raw text stays the single source of truth and records are
// re-derived on every fetch, never patched.
type Classification struct {
	Type           Type
	Status         Status
	ResolutionNote string
}

var resolutionNoteRe = regexp.MustCompile(`(?i)resolved:(.*)`)

// Classify derives type, status and resolution note from raw exception text.
// Matching is case-insensitive substring matching in fixed priority order;
// the first match wins. Classify is a pure function: identical input always
// yields identical output.
func Classify(rawText string) Classification {
	lower := strings.ToLower(rawText)

	return Classification{
		Type:           classifyType(lower),
		Status:         inferStatus(lower),
		ResolutionNote: extractResolutionNote(rawText),
	}
}

func classifyType(lower string) Type {
	switch {
	case strings.Contains(lower, "bank"):
		return TypeMissingBankDetails
	case strings.Contains(lower, "negative"):
		return TypeNegativeNetPay
	case strings.Contains(lower, "penalty"), strings.Contains(lower, "penalties"):
		return TypeExcessivePenalties
	case strings.Contains(lower, "zero") && strings.Contains(lower, "salary"):
		return TypeZeroBaseSalary
	default:
		return TypeCalculationError
	}
}

func inferStatus(lower string) Status {
	switch {
	case strings.Contains(lower, "resolved"):
		return StatusResolved
	case strings.Contains(lower, "in progress"), strings.Contains(lower, "investigating"):
		return StatusInProgress
	default:
		return StatusOpen
	}
}

func extractResolutionNote(rawText string) string {
	m := resolutionNoteRe.FindStringSubmatch(rawText)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
