package metrics

import "go.opencensus.io/stats"

type trackedMetrics struct {
	Telemetry struct {
		PerAssembly []FilesMetrics        `group:"assemblies" description:""` // ignored
		Retries     []*stats.Int64Measure `group:"retries" description:""`    // ignored
		RunCount    *stats.Int64Measure   `metric:"runCount" description:"number of materialize runs"`
	} `group:"telemetry" description:""`
	Volumetry struct {
		Artifacts FilesMetrics `group:"artifacts" description:""`
	} `group:"volumetry" description:""`
	Network struct {
		Downloads IOMetrics
	} `group:"network" description:""`
}

func (e *trackedMetrics) IncRun() {
	Inc(e.Telemetry.RunCount, map[string]string{"kind": "run"})
}
