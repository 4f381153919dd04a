// Package risk classifies transfer requests into coarse risk levels.
package risk

import (
	"regexp"
	"strings"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
)

// InternalDomainSuffix marks recipients inside the trusted organisation.
const InternalDomainSuffix = "@corp.com"

// Classifier maps a recipient and purpose to a risk level. Implementations must be pure.
type Classifier interface {
	Classify(recipient, purpose string) domain.RiskLevel
}

// RE2 has no lookaround and its \b, \d and \s are ASCII only. Word boundaries are
// spelled out with Unicode classes so that "ü123-45-6789" is not an SSN while
// "١٢٣-٤٥-٦٧٨٩" is.
const (
	wordChars = `\p{L}\p{Mn}\p{Nd}\p{Pc}`
	wordStart = `(?:^|[^` + wordChars + `])`
	wordEnd   = `(?:$|[^` + wordChars + `])`
	nonSpace  = `[^\t\n\x{0B}\f\r\x{85}\p{Z}]`
)

// Sensitive-data patterns, scanned in this order.
var (
	SSNPattern   = regexp.MustCompile(wordStart + `\p{Nd}{3}-\p{Nd}{2}-\p{Nd}{4}` + wordEnd)
	PhonePattern = regexp.MustCompile(wordStart + `\p{Nd}{10}` + wordEnd)
	// The local part and the text after the last dot each need a word character.
	EmailPattern = regexp.MustCompile(nonSpace + `*[` + wordChars + `]` + nonSpace + `*@` + nonSpace + `+\.` + nonSpace + `*[` + wordChars + `]`)
)

// PatternClassifier flags any purpose matching a sensitive pattern as High,
// any recipient outside the internal domain as Medium, and everything else as Low.
type PatternClassifier struct {
	internalSuffix string
	patterns       []*regexp.Regexp
}

// NewPatternClassifier builds a classifier for the given internal domain suffix and ordered patterns.
func NewPatternClassifier(internalSuffix string, patterns ...*regexp.Regexp) *PatternClassifier {
	return &PatternClassifier{
		internalSuffix: strings.ToLower(internalSuffix),
		patterns:       patterns,
	}
}

// NewDefaultClassifier returns the classifier used in production.
func NewDefaultClassifier() *PatternClassifier {
	return NewPatternClassifier(InternalDomainSuffix, SSNPattern, PhonePattern, EmailPattern)
}

var _ Classifier = (*PatternClassifier)(nil)

// Classify checks the purpose for sensitive data before looking at the recipient,
// so PII is High even for internal recipients.
func (c *PatternClassifier) Classify(recipient, purpose string) domain.RiskLevel {
	if c.containsSensitiveData(purpose) {
		return domain.RiskHigh
	}
	if !c.isInternal(recipient) {
		return domain.RiskMedium
	}
	return domain.RiskLow
}

func (c *PatternClassifier) containsSensitiveData(text string) bool {
	for _, p := range c.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func (c *PatternClassifier) isInternal(recipient string) bool {
	return strings.HasSuffix(strings.ToLower(recipient), c.internalSuffix)
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(recipient, purpose string) domain.RiskLevel

func (f ClassifierFunc) Classify(recipient, purpose string) domain.RiskLevel {
	return f(recipient, purpose)
}
