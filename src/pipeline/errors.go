package pipeline

import "fmt"

// Stage is a step in the life of a single batch unit
type Stage int

const (
	Loading Stage = iota
	Resolving
	Writing
)

var stageNames = [...]string{"loading", "resolving", "writing"}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// action describes what a unit was doing when it failed at this stage
func (s Stage) action() string {
	switch s {
	case Loading:
		return "unable to read signatures from"
	case Resolving:
		return "unable to load a sketch from"
	case Writing:
		return "unable to write subtracted signature for"
	}
	return "unable to process"
}

// UnitError records the target file and stage at which a batch unit failed
type UnitError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Stage.action(), e.Path, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// QueryError is returned when no usable sketch can be extracted from the query
type QueryError struct {
	Path string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("unable to load a query sketch from %q: %v", e.Path, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
