package metrics

import (
	"time"

	"go.opencensus.io/stats"
)

// FilesMetrics is a reusable set of metrics about files being produced or consumed
type FilesMetrics struct {
	FileCount *stats.Int64Measure `metric:"fileCount" description:"number of files" extraviews:"sum" tags:"kind,operation"`
	FileSize  *stats.Int64Measure `metric:"fileSize" unit:"bytes" description:"size of files" extraviews:"sum" tags:"kind,operation"`
}

func (f *FilesMetrics) tags(operation string) map[string]string {
	return map[string]string{"kind": "artifact", "operation": operation}
}

// Inc increments the counter for files
func (f *FilesMetrics) Inc(operation string) {
	Inc(f.FileCount, f.tags(operation))
}

// Size measures the size of a file
func (f *FilesMetrics) Size(size int64, operation string) {
	Int64(f.FileSize, size, f.tags(operation))
}

// IOMetrics is a reusable set of metrics about IO activity, such as downloads
// from remote stores or writes to the references directory
type IOMetrics struct {
	Count        *stats.Int64Measure   `metric:"ioCount" description:"number of IO requests" tags:"kind,operation"`
	Timing       *stats.Float64Measure `metric:"timing" unit:"milliseconds" description:"response time in milliseconds" tags:"kind,operation"`
	Failures     *stats.Int64Measure   `metric:"ioFailures" description:"number of failed IOs" tags:"kind,operation"`
	IOSize       *stats.Int64Measure   `metric:"ioSize" unit:"bytes" description:"IO chunk size in bytes" extraviews:"sum" tags:"kind,operation"`
	IOThroughput *stats.Float64Measure `metric:"throughput" unit:"bytespersec" description:"distribution of throughput of an unitary operation in bytes per second" tags:"kind,operation"`
}

func (n *IOMetrics) tags(operation string) map[string]string {
	return map[string]string{"kind": "io", "operation": operation}
}

// IO records the timing and count of an IO operation.
//
// Example:
//
//	var downloads = &IOMetrics{}
//
//	func (f *fetcher) Fetch(url string) error {
//	  defer downloads.IO(time.Now(), "fetch")
//	  size, err := f.download(url)
//	  if err != nil {
//	    downloads.Failed("fetch")
//	    return err
//	  }
//	  downloads.Size(size, "fetch")
//	  return nil
//	}
func (n *IOMetrics) IO(start time.Time, operation string) {
	now := time.Now()
	Duration(start, now, n.Timing, n.tags(operation))
	Inc(n.Count, n.tags(operation))
}

// Size records the size of some IO operation. Zero sizes are not recorded.
func (n *IOMetrics) Size(size int64, operation string) {
	if size == 0 {
		return
	}
	Int64(n.IOSize, size, n.tags(operation))
}

// Failed records a failure on some IO operation
func (n *IOMetrics) Failed(operation string) {
	Inc(n.Failures, n.tags(operation))
}

// Throughput records the throughput of a successful, non-empty, IO operation,
// expressed in bytes per second.
func (n *IOMetrics) Throughput(start, end time.Time, size int64, operation string) {
	if size == 0 {
		return
	}
	elapsed := end.Sub(start)
	if elapsed == 0 {
		return
	}
	rate := float64(size) / (float64(elapsed) / 1e9)
	Float64(n.IOThroughput, rate, n.tags(operation))
}

// IORecord captures timing, count, size, throughput and failure of an IO
// operation in a single deferred call.
//
// Example with deferred error capture:
//
//	var downloads = &IOMetrics{}
//
//	func (f *fetcher) Fetch(url string) (err error) {
//	  var size int64
//
//	  defer func(start time.Time) {
//	    downloads.IORecord(start, "fetch")(size, err)
//	  }(time.Now())
//	  ...
//	  size, err = f.download(url)
//	  return
//	}
func (n *IOMetrics) IORecord(start time.Time, operation string) func(int64, error) {
	return func(size int64, err error) {
		now := time.Now()
		Duration(start, now, n.Timing, n.tags(operation))
		Inc(n.Count, n.tags(operation))
		n.Size(size, operation)
		if err != nil {
			Inc(n.Failures, n.tags(operation))
			return
		}
		n.Throughput(start, now, size, operation)
	}
}

// UsageMetrics is a reusable set of metrics about entry point usage
type UsageMetrics struct {
	Count    *stats.Int64Measure   `metric:"usageCount" description:"number of calls" tags:"kind,method"`
	Failures *stats.Int64Measure   `metric:"usageFailures" description:"number of failed calls" tags:"kind,method"`
	Timing   *stats.Float64Measure `metric:"timing" unit:"milliseconds" description:"duration of a call" tags:"kind,method"`
}

func (u *UsageMetrics) tags(method string) map[string]string {
	return map[string]string{"kind": "usage", "method": method}
}

// Inc records the usage of some method, without timings or failure reporting
func (u *UsageMetrics) Inc(method string) {
	Inc(u.Count, u.tags(method))
}

// Used records usage and timing of some instrumented entry point.
//
// Example:
//
//	var usage = &UsageMetrics{}
//
//	func (r *resolver) Resolve() error {
//	  defer usage.Used(time.Now(), "Resolve")
//	  if err := r.compile(); err != nil {
//	    usage.Failed("Resolve")
//	    return err
//	  }
//	  return nil
//	}
func (u *UsageMetrics) Used(start time.Time, method string) {
	Since(start, u.Timing, u.tags(method))
	Inc(u.Count, u.tags(method))
}

// UsedAll records usage, timing and failure of some instrumented entry point,
// in a single deferred call.
//
// Example:
//
//	var usage = &UsageMetrics{}
//
//	func (r *resolver) Resolve() (err error) {
//	  defer func(start time.Time) {
//	    usage.UsedAll(start, "Resolve")(err)
//	  }(time.Now())
//	  ...
//	  err = r.compile()
//	  return
//	}
func (u *UsageMetrics) UsedAll(start time.Time, method string) func(error) {
	return func(err error) {
		Since(start, u.Timing, u.tags(method))
		Inc(u.Count, u.tags(method))
		if err != nil {
			Inc(u.Failures, u.tags(method))
		}
	}
}

// Failed records a failure on some instrumented entry point
func (u *UsageMetrics) Failed(method string) {
	Inc(u.Failures, u.tags(method))
}
