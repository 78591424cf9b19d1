package core_test

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want core.Severity
		ok   bool
	}{
		{"error", core.SeverityError, true},
		{"ERROR", core.SeverityError, true},
		{"warning", core.SeverityWarning, true},
		{" warn ", core.SeverityWarning, true},
		{"info", core.SeverityInfo, true},
		{"hint", core.SeverityHint, true},
		{"fatal", core.SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := core.ParseSeverity(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(map[string]core.Severity{"s": core.SeverityInfo})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"info"}`, string(data))

	var s core.Severity
	require.NoError(t, s.UnmarshalText([]byte("hint")))
	assert.Equal(t, core.SeverityHint, s)
	assert.Error(t, s.UnmarshalText([]byte("loud")))
	assert.Equal(t, "unknown", core.Severity(42).String())
}
