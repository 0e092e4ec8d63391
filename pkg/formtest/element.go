package formtest

// FakeElement records element capability calls without a real widget
// behind them.
type FakeElement struct {
	// FocusCount is the number of Focus calls received.
	FocusCount int
	// SelectCount is the number of Select calls received.
	SelectCount int
	// Validity is the last message passed to SetCustomValidity.
	Validity string
	// ReportResult is returned by ReportValidity. The zero value reads
	// as invalid; set it in tests that need a passing report.
	ReportResult bool
	// ReportCount is the number of ReportValidity calls received.
	ReportCount int
}

// Focus records a focus request.
func (e *FakeElement) Focus() { e.FocusCount++ }

// Select records a select-contents request.
func (e *FakeElement) Select() { e.SelectCount++ }

// SetCustomValidity records the validity message.
func (e *FakeElement) SetCustomValidity(msg string) { e.Validity = msg }

// ReportValidity records the call and returns the configured result.
func (e *FakeElement) ReportValidity() bool {
	e.ReportCount++
	return e.ReportResult
}
