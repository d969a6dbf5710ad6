package collectlog

import "triageir/scanerrors"

// DegradeValue runs op; on success it returns op's value. On failure it
// logs at ERROR if the error is classified fatal, otherwise at WARN, and
// returns the zero value of T. The persistence collector's scheduled-task
// query runs under DegradeValue; the orchestrator calls the collectors
// directly and does not wrap them in it.
func DegradeValue[T any](l *Log, name string, op func() (T, error)) T {
	var zero T
	val, err := op()
	if err == nil {
		return val
	}
	l.logFailure(name, err)
	return zero
}

func (l *Log) logFailure(name string, err error) {
	var serr *scanerrors.Error
	msg := err.Error()
	if scanerrors.As(err, &serr) {
		if serr.Fatal() {
			l.Error("%s: %s", name, msg)
			return
		}
		l.Warn("%s: %s", name, msg)
		return
	}
	l.Error("%s: %s", name, msg)
}
