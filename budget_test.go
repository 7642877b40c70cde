package contextkey

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 0, EstimateTokens("abc"))
	assert.Equal(t, 2, EstimateTokens("abcdefghi"))

	// Characters, not bytes.
	assert.Equal(t, 1, EstimateTokens("éééé"))
}

func TestCheckBudget(t *testing.T) {
	cfg := ProviderConfig{}

	report := CheckBudget("some long enough text", cfg)

	assert.Equal(t, 5, report.EstimatedTokens)
	assert.Nil(t, report.Limit)
	assert.False(t, report.Exceeds, "absent limit never exceeds")

	cfg.ContextLimit = lo.ToPtr(4)

	assert.True(t, CheckBudget("some long enough text", cfg).Exceeds)
	assert.False(t, CheckBudget("short", cfg).Exceeds)
}

func TestCheckBudgetZeroLimit(t *testing.T) {
	cfg := ProviderConfig{ContextLimit: lo.ToPtr(0)}

	assert.True(t, CheckBudget("ab", cfg).Exceeds, "any non-empty text exceeds a zero limit")
	assert.True(t, CheckBudget("abcdefgh", cfg).Exceeds)
	assert.False(t, CheckBudget("", cfg).Exceeds)
}

func TestCheckBudgetDeterminism(t *testing.T) {
	cfg := ProviderConfig{ContextLimit: lo.ToPtr(10)}
	text := "the same combined input string"

	first := CheckBudget(text, cfg)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CheckBudget(text, cfg))
	}
}
