package contextkey

import "unicode/utf8"

// charsPerToken is the crude characters-to-tokens ratio used for
// advisory warnings. It is intentionally approximate.
const charsPerToken = 4

// BudgetReport is the advisory verdict shown by the UI before and
// after a send. It is computed from the same combined-input string the
// dispatcher sees, so the two never disagree.
type BudgetReport struct {
	EstimatedTokens int
	// Limit echoes the config's context limit; nil means unknown.
	Limit *int
	// Exceeds is false whenever Limit is nil.
	Exceeds bool
}

// EstimateTokens approximates the token count of text as its character
// count divided by four, rounded down. Pure and stateless, so UI and
// dispatcher stay consistent without sharing anything.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / charsPerToken
}

// CheckBudget compares the estimate against the config's context
// limit. A zero limit is exceeded by any non-empty text, even one too
// short to round up to a full token.
func CheckBudget(text string, cfg ProviderConfig) BudgetReport {
	report := BudgetReport{
		EstimatedTokens: EstimateTokens(text),
		Limit:           cfg.ContextLimit,
	}

	if cfg.ContextLimit != nil {
		limit := *cfg.ContextLimit
		report.Exceeds = report.EstimatedTokens > limit || (limit <= 0 && text != "")
	}

	return report
}
