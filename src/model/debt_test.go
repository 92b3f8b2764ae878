package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		debtType DebtType
		want     Priority
	}{
		{TypeMissingTest, PriorityHigh},
		{TypeDuplicateCode, PriorityMedium},
		{TypeStaticAnalysisIssue, PriorityHigh},
		{DebtType("Unknown"), PriorityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.debtType), func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityFor(tt.debtType))
		})
	}
}

func TestPriorityRank(t *testing.T) {
	assert.Equal(t, 3, PriorityHigh.Rank())
	assert.Equal(t, 2, PriorityMedium.Rank())
	assert.Equal(t, 1, PriorityLow.Rank())
	assert.Equal(t, 0, Priority("Urgent").Rank())
}

func TestNewDebtItem_DerivesPriority(t *testing.T) {
	for _, debtType := range DebtTypes {
		item := NewDebtItem("app/Foo.php", debtType)
		assert.Equal(t, "app/Foo.php", item.File)
		assert.Equal(t, debtType, item.Type)
		assert.Equal(t, PriorityFor(debtType), item.Priority)
	}
}

func TestDebtItem_JSONShape(t *testing.T) {
	data, err := json.Marshal(NewDebtItem("app/Foo.php", TypeDuplicateCode))
	require.NoError(t, err)

	assert.JSONEq(t, `{"file":"app/Foo.php","type":"DuplicateCode","priority":"Medium"}`, string(data))
}
