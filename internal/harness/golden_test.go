package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		scenario, err := LoadScenario(f)
		require.NoError(t, err, f)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_Canonical(t *testing.T) {
	result := NewResult()
	result.QueryID = "q"
	result.AddTrace(TraceEvent{
		Step:      1,
		Function:  "toWeek",
		ArgTypes:  []string{},
		ErrorCode: "NUMBER_OF_ARGUMENTS_DOESNT_MATCH",
		Error:     "left out of snapshots",
	})

	got, err := Snapshot("s", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"query_id":"q","scenario_name":"s","trace":[{"arg_types":[],"error_code":"NUMBER_OF_ARGUMENTS_DOESNT_MATCH","function":"toWeek","step":1}]}`,
		string(got))
}

func TestSnapshot_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/start_of_week_date32.yaml")
	require.NoError(t, err)

	var snapshots [][]byte
	for i := 0; i < 3; i++ {
		result, err := Run(scenario)
		require.NoError(t, err)
		snap, err := Snapshot(scenario.Name, result)
		require.NoError(t, err)
		snapshots = append(snapshots, snap)
	}
	assert.Equal(t, snapshots[0], snapshots[1])
	assert.Equal(t, snapshots[1], snapshots[2])
}
