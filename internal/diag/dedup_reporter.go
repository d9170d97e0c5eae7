package diag

type dedupKey struct {
	code   Code
	sev    Severity
	origin string
	line   int
	msg    string
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same code, severity, location and message. The batch driver renders
// many roots through the same layouts, so one bad node would otherwise be
// reported once per root.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]int
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]int),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary Location, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, sev: sev, origin: primary.Origin, line: primary.Line, msg: msg}
	r.seen[key]++
	if r.seen[key] > 1 {
		return
	}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed is how many duplicates were dropped.
func (r *DedupReporter) Suppressed() int {
	n := 0
	for _, c := range r.seen {
		n += c - 1
	}
	return n
}
