package telemetry

import (
	"strings"
	"sync"
)

type Report struct {
	Kind   string
	Id     string
	Params []any
}

// Recorder implements API by keeping every report in memory, tests use it
// to assert that breakage was reported.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *Recorder) add(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, Id: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add("broken", id, params)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add("warning", id, params)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add("debug", msg, params)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add("count", id, []any{count})
}

// Reports returns every report of the given kind whose id contains the substring.
func (r *Recorder) Reports(kind, id string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, rep := range r.reports {
		if rep.Kind == kind && strings.Contains(rep.Id, id) {
			out = append(out, rep)
		}
	}
	return out
}
