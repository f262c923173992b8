package service

import (
	"regexp"
	"strings"

	"github.com/dgraph-io/ristretto"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Regional phone formats: Swedish international, Swedish national,
	// North American international.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+46\s*\d{1,2}\s*\d{3}\s*\d{2}\s*\d{2}`),
		regexp.MustCompile(`0\d{1,2}\s*\d{3}\s*\d{2}\s*\d{2}`),
		regexp.MustCompile(`\+1\s*\d{3}\s*\d{3}\s*\d{4}`),
	}

	jwtPattern        = regexp.MustCompile(`eyJ[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+`)
	oauthPattern      = regexp.MustCompile(`[A-Za-z0-9]{32,}`)
	ibanPattern       = regexp.MustCompile(`\b[A-Z]{2}[0-9]{2}[A-Z0-9]{4}[0-9]{7}([A-Z0-9]?){0,16}\b`)
	creditCardPattern = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	openAIKeyPattern  = regexp.MustCompile(`sk-[A-Za-z0-9]{48}`)
)

type redactionRule struct {
	pattern *regexp.Regexp
	mask    func(string) string
}

// PIIRedactor masks sensitive substrings in text and in structured values.
// Rules run in a fixed total order and later rules see the output of
// earlier ones, so the narrow patterns (JWT, IBAN) run before the generic
// long-alphanumeric one. The generic rule can still re-match masked output
// of narrower rules or benign long tokens; that overlap is kept until
// there is a decision on acceptable false positives.
type PIIRedactor struct {
	rules []redactionRule
	cache *ristretto.Cache
}

// NewPIIRedactor builds the rule table. Redaction is deterministic, so an
// optional ristretto cache memoizes RedactText results; nil disables
// memoization.
func NewPIIRedactor(cache *ristretto.Cache) *PIIRedactor {
	rules := []redactionRule{
		{emailPattern, maskEmail},
	}
	for _, pattern := range phonePatterns {
		rules = append(rules, redactionRule{pattern, maskPhone})
	}
	rules = append(rules,
		redactionRule{jwtPattern, maskJWT},
		redactionRule{oauthPattern, maskKeepEnds},
		redactionRule{ibanPattern, maskKeepEnds},
		redactionRule{creditCardPattern, maskKeepEnds},
		redactionRule{openAIKeyPattern, maskKeepEnds},
		redactionRule{oauthPattern, maskKeepEnds},
	)
	return &PIIRedactor{rules: rules, cache: cache}
}

// RedactText applies every rule in order over the whole string. Unmatched
// text passes through unchanged.
func (p *PIIRedactor) RedactText(text string) string {
	if p.cache != nil {
		if cached, found := p.cache.Get(text); found {
			if masked, ok := cached.(string); ok {
				return masked
			}
		}
	}

	masked := text
	for _, rule := range p.rules {
		masked = rule.pattern.ReplaceAllStringFunc(masked, rule.mask)
	}

	if p.cache != nil {
		p.cache.Set(text, masked, int64(len(text)))
	}
	return masked
}

// RedactMap recursively masks string values in a map. Nested maps recurse,
// slice elements get the same treatment, and all other values pass through
// unchanged. The input is never mutated.
func (p *PIIRedactor) RedactMap(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))
	for key, value := range data {
		switch v := value.(type) {
		case string:
			masked[key] = p.RedactText(v)
		case map[string]interface{}:
			masked[key] = p.RedactMap(v)
		case []interface{}:
			masked[key] = p.redactSlice(v)
		default:
			masked[key] = value
		}
	}
	return masked
}

func (p *PIIRedactor) redactSlice(items []interface{}) []interface{} {
	masked := make([]interface{}, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			masked[i] = p.RedactText(v)
		case map[string]interface{}:
			masked[i] = p.RedactMap(v)
		default:
			masked[i] = item
		}
	}
	return masked
}

// maskEmail masks local part and domain independently, keeping the first
// two characters of each.
func maskEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return strings.Repeat("*", len(email))
	}
	return maskKeepPrefix(parts[0], 2) + "@" + maskKeepPrefix(parts[1], 2)
}

// maskPhone keeps the first three and last two characters of sufficiently
// long matches.
func maskPhone(phone string) string {
	if len(phone) >= 8 {
		return phone[:3] + strings.Repeat("*", len(phone)-5) + phone[len(phone)-2:]
	}
	return strings.Repeat("*", len(phone))
}

// maskJWT keeps the first eight characters of header and payload and fully
// masks the signature.
func maskJWT(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return strings.Repeat("*", len(token))
	}
	return truncate(parts[0], 8) + "..." + "." + truncate(parts[1], 8) + "..." + "." + strings.Repeat("*", 20)
}

// maskKeepEnds keeps the first and last four characters of matches at
// least eight characters long; shorter matches are fully masked.
func maskKeepEnds(match string) string {
	if len(match) >= 8 {
		return match[:4] + strings.Repeat("*", len(match)-8) + match[len(match)-4:]
	}
	return strings.Repeat("*", len(match))
}

func maskKeepPrefix(s string, keep int) string {
	if len(s) <= keep {
		return s
	}
	return s[:keep] + strings.Repeat("*", len(s)-keep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
