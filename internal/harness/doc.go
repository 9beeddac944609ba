// Package harness provides conformance testing for week functions.
//
// A scenario is a list of calls made under one set of query settings.
// Each call is bound and executed through a session exactly as a query
// would run it, so the harness checks real results: return types, values,
// execution paths and contract errors.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	settings:
//	  enable_date32_results: true
//	  session_timezone: "UTC"
//	query_id: "q-1"
//	calls:
//	  - function: toStartOfWeek
//	    args:
//	      - type: Date32
//	        values: ["2024-01-03", "NULL"]
//	      - type: UInt8
//	        values: ["1"]
//	        const: true
//	    expect:
//	      return_type: Date32
//	      values: ["2024-01-01", "NULL"]
//	  - function: toWeek
//	    args: []
//	    expect:
//	      error: { kind: arity }
//	assertions:
//	  - type: trace_contains
//	    function: toStartOfWeek
//	    path: "WideDay->Date32"
//	  - type: run_log
//	    count: 1
//
// # Assertion Types
//
//   - trace_contains: a call of a function appears, optionally on a given path
//   - trace_order: functions first appear in the specified order
//   - trace_count: a function is called exactly N times
//   - run_log: the store logged exactly N executed batches
//
// # Deterministic Testing
//
// Every run uses a fixed query id (testutil.FixedQueryID) and a fresh
// in-memory SQLite run log, so traces are identical across runs and can
// be compared against golden files with RunWithGolden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/to_week_modes.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range result.Errors {
//	    log.Println(msg)
//	}
package harness
