package domain

// TestOptions controls one test invocation.
type TestOptions struct {
	// ForceRebuild builds even when the artifact is current.
	ForceRebuild bool
	// UnitOnly runs only the binary's own unit tests.
	UnitOnly bool
	// IntegrationOnly runs only the end-to-end test target.
	IntegrationOnly bool
	// Verbose passes the verbose flag to the test driver.
	Verbose bool
	// TestName filters tests by name.
	TestName string
	// NoCapture shows test output as it is produced.
	NoCapture bool
}

// Validate rejects contradictory option combinations.
func (o TestOptions) Validate() error {
	if o.UnitOnly && o.IntegrationOnly {
		return ErrConflictingTestScope
	}
	return nil
}

// TestPhase is a step of the test runner's state machine.
type TestPhase int

const (
	PhaseIdle TestPhase = iota
	PhaseRebuildCheck
	PhaseBuilding
	PhaseProvisioning
	PhaseExecuting
	PhasePassed
	PhaseFailed
)

var phaseNames = [...]string{
	PhaseIdle:         "idle",
	PhaseRebuildCheck: "rebuild-check",
	PhaseBuilding:     "building",
	PhaseProvisioning: "provisioning",
	PhaseExecuting:    "executing",
	PhasePassed:       "passed",
	PhaseFailed:       "failed",
}

func (p TestPhase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// TestResult is the terminal state of a test invocation.
type TestResult struct {
	// Phase is PhasePassed or PhaseFailed.
	Phase TestPhase
	// FailedIn is the phase that was active when the run failed.
	FailedIn TestPhase
	// ExitCode is the test process exit code, or 1 when it never ran.
	ExitCode int
	// Rebuilt reports whether the artifact was built during this run.
	Rebuilt bool
	// Bindings is the environment handed to the test process.
	Bindings Bindings
}
