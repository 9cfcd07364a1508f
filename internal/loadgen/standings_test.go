package loadgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// countingStats serves /stats whose handled total starts at start and grows
// by one on every read.
func countingStats(start int64) (*httptest.Server, *atomic.Int64) {
	var reads atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := reads.Add(1) - 1
		_ = json.NewEncoder(w).Encode(map[string]any{"processed": start + n, "failed": 0})
	}))
	return srv, &reads
}

func TestWaitForProcessing(t *testing.T) {
	Convey("Given a service that already handled events from an earlier run", t, func() {
		srv, reads := countingStats(500)
		defer srv.Close()
		config := &Config{BaseURL: srv.URL, Timeout: time.Second, Settle: 5 * time.Second}
		ctx := context.Background()

		Convey("When waiting for three new events on top of the baseline", func() {
			baseline, err := handledCount(ctx, config)
			So(err, ShouldBeNil)
			So(baseline, ShouldEqual, 500)

			err = waitForProcessing(ctx, config, baseline+3)

			Convey("Then it keeps polling until the new events are handled", func() {
				So(err, ShouldBeNil)
				So(reads.Load(), ShouldEqual, 4)
			})
		})

		Convey("When the target is never reached", func() {
			config.Settle = 150 * time.Millisecond
			err := waitForProcessing(ctx, config, 1_000_000)

			Convey("Then it gives up after settle", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "want 1000000")
			})
		})
	})
}
