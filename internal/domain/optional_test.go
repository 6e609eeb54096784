package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	some := Some(42.5)
	v, ok := some.Get()
	require.True(t, ok)
	assert.Equal(t, 42.5, v)
	assert.Equal(t, 42.5, some.OrElse(1))

	none := None[float64]()
	assert.False(t, none.IsSome())
	assert.Equal(t, 1.0, none.OrElse(1))

	var zero Optional[int]
	assert.False(t, zero.IsSome())
}

func TestOptional_FromPtr(t *testing.T) {
	x := 7
	assert.Equal(t, Some(7), FromPtr(&x))
	assert.Equal(t, None[int](), FromPtr[int](nil))
}

func TestOptional_JSON(t *testing.T) {
	type payload struct {
		A Optional[float64] `json:"a"`
		B Optional[float64] `json:"b"`
	}

	data, err := json.Marshal(payload{A: Some(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Some(1.5), decoded.A)
	assert.False(t, decoded.B.IsSome())
}

func TestFlagCounts_Add(t *testing.T) {
	counts := NewFlagCounts()
	counts.Add(DiagnosticFlag{Category: CategoryVolume, Severity: SeverityYellow})
	counts.Add(DiagnosticFlag{Category: CategorySmartMoney, Severity: SeverityRed})
	counts.Add(DiagnosticFlag{Category: CategorySmartMoney, Severity: SeverityYellow})

	assert.Equal(t, 1, counts.Red)
	assert.Equal(t, 2, counts.Yellow)
	assert.Equal(t, CategoryCount{Red: 1, Yellow: 1}, counts.ByCategory[CategorySmartMoney])
	assert.Equal(t, CategoryCount{}, counts.ByCategory[CategoryValuation])
	assert.Len(t, counts.ByCategory, len(Categories))
}

func TestDecision_IsValid(t *testing.T) {
	assert.True(t, DecisionBuy.IsValid())
	assert.True(t, DecisionPass.IsValid())
	assert.False(t, Decision("SELL").IsValid())
}
