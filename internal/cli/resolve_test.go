package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSig  string
		wantPath string
	}{
		{
			name:     "scalar over Date32",
			args:     []string{"resolve", "toWeek", "Date32"},
			wantSig:  "toWeek(Date32) -> UInt8",
			wantPath: "WideDay->UInt8",
		},
		{
			name:     "scalar with mode and timezone",
			args:     []string{"resolve", "toYearWeek", "DateTime('UTC')", "UInt8", "String"},
			wantSig:  "toYearWeek(DateTime('UTC'), UInt8, String) -> UInt32",
			wantPath: "SecondsTZ->UInt32",
		},
		{
			name:     "identity narrows Date32 by default",
			args:     []string{"resolve", "toStartOfWeek", "Date32"},
			wantSig:  "toStartOfWeek(Date32) -> Date",
			wantPath: "WideDay->Date (narrowing)",
		},
		{
			name:     "identity keeps Date32 with flag",
			args:     []string{"resolve", "toStartOfWeek", "Date32", "--enable-date32-results"},
			wantSig:  "toStartOfWeek(Date32) -> Date32",
			wantPath: "WideDay->Date32",
		},
		{
			name:     "DateTime stays Date with flag",
			args:     []string{"resolve", "toLastDayOfWeek", "DateTime", "--enable-date32-results"},
			wantSig:  "toLastDayOfWeek(DateTime) -> Date",
			wantPath: "SecondsTZ->Date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantSig)
			assert.Contains(t, out, "path:        "+tt.wantPath)
			assert.Contains(t, out, "fingerprint: ")
		})
	}
}

func TestResolveCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "resolve", "toStartOfWeek", "DateTime64(3, 'UTC')", "--format", "json", "--enable-date32-results")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ResolveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Date32", resp.Data.ReturnType)
	assert.Equal(t, "SubSecondTZ(3)->Date32", resp.Data.Path)
	assert.Equal(t, []string{"DateTime64(3, 'UTC')"}, resp.Data.ArgTypes)
	assert.NotEmpty(t, resp.Data.Fingerprint)
}

func TestResolveCommand_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
		wantExit int
	}{
		{"no arguments", []string{"resolve", "toWeek"}, "NUMBER_OF_ARGUMENTS_DOESNT_MATCH", ExitFailure},
		{"too many arguments", []string{"resolve", "toWeek", "Date", "UInt8", "String", "String"}, "NUMBER_OF_ARGUMENTS_DOESNT_MATCH", ExitFailure},
		{"non temporal", []string{"resolve", "toWeek", "String"}, "ILLEGAL_TYPE_OF_ARGUMENT", ExitFailure},
		{"timezone on Date", []string{"resolve", "toStartOfWeek", "Date", "UInt8", "String"}, "ILLEGAL_TYPE_OF_ARGUMENT", ExitFailure},
		{"unknown function", []string{"resolve", "toWeekNumber", "Date"}, "UNKNOWN_FUNCTION", ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
		})
	}
}

func TestResolveCommand_BadTypeName(t *testing.T) {
	_, _, err := execute(t, "resolve", "toWeek", "Decimal(")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "argument 1")
}

func TestResolveResult_String(t *testing.T) {
	r := ResolveResult{
		Function:    "toWeek",
		ArgTypes:    []string{"Date"},
		ReturnType:  "UInt8",
		Fingerprint: "abc",
	}
	assert.Equal(t, "toWeek(Date) -> UInt8\nfingerprint: abc", r.String())
}
