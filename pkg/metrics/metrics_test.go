package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func value(c prometheus.Metric) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return -1
	}
	if m.Counter != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}

func TestNewManager(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			m.tierChanges.WithLabelValues("pvp", "promotion").Inc()

			Convey("Then metrics are registered under the namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "test_unit_"), ShouldBeTrue)
					if f.GetName() == "test_unit_tier_changes_total" {
						found = true
						So(f.GetMetric()[0].GetLabel(), ShouldHaveLength, 3)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When registering the same manager twice", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		So(GetRegistry(), ShouldNotBeNil)

		Convey("When recording business events", func() {
			before := value(globalManager.tierChanges.WithLabelValues("weekly", "demotion"))
			resolves := value(globalManager.tierResolves.WithLabelValues("pvp"))
			RecordTierChange("weekly", "demotion")
			RecordEventProcessed("weekly")
			RecordEventDuplicate()
			RecordEventRejected("unknown_kind")
			RecordScoringLatency(1.5)
			UpdateStudentsTotal("weekly", 12)
			RecordTrackReset("weekly")
			RecordQuestionReview("good")
			RecordExport()
			RecordTierResolve("pvp")

			Convey("Then the counters move", func() {
				So(value(globalManager.tierResolves.WithLabelValues("pvp")), ShouldEqual, resolves+1)
				So(value(globalManager.tierChanges.WithLabelValues("weekly", "demotion")), ShouldEqual, before+1)
				So(value(globalManager.studentsTotal.WithLabelValues("weekly")), ShouldEqual, 12)
			})
		})

		Convey("When recording infrastructure events", func() {
			UpdateQueueSize(3)
			UpdateQueueCapacity(10)
			RecordQueueEnqueue()
			RecordQueueDequeue()
			RecordQueueEnqueueError()
			UpdateWorkerCount(4)
			UpdateWorkerActiveCount(2)
			RecordWorkerProcessingLatency(0.3)
			RecordWorkerError()
			RecordRepositoryUpdateLatency("memory", 0.1)
			RecordRepositoryQueryLatency("memory", 0.2)
			RecordHTTPRequest("/tiers/{track}", "GET", "200")
			RecordHTTPRequestDuration("/tiers/{track}", "GET", "200", 2)
			RecordErrorByComponent("api", "bad_request")

			Convey("Then the gauges hold the last value", func() {
				So(value(globalManager.queueSize), ShouldEqual, 3)
				So(value(globalManager.workerActiveCount), ShouldEqual, 2)
			})
		})
	})
}
