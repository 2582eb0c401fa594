package output

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/devopsext/utils"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wego-track/tracker/common"
)

var log = utils.GetLog()

var beaconOutputCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "tracker_beacon_output_count",
	Help: "Count of all beacon output transmissions",
}, []string{"tracker_beacon_output_endpoint"})

type BeaconOutputOptions struct {
	Timeout   int
	UserAgent string
}

// BeaconOutput transmits payloads to the collector endpoint as single
// non-blocking JSON POSTs. Delivery is fire and forget: no retry, no
// response handling, failures are invisible to the emitter. In-flight
// beacons are tracked on the wait group so shutdown drains them instead of
// dropping them.
type BeaconOutput struct {
	wg      *sync.WaitGroup
	client  *http.Client
	options BeaconOutputOptions
}

func (b *BeaconOutput) Send(endpoint string, payload *common.EventPayload) {

	b.wg.Add(1)

	go func() {

		defer b.wg.Done()

		if payload == nil {
			log.Debug("Payload to beacon is empty")
			return
		}

		if utils.IsEmpty(endpoint) {
			log.Debug("Beacon endpoint is not defined. Skipped.")
			return
		}

		data, err := json.Marshal(payload)
		if err != nil {
			log.Error(err)
			return
		}

		log.Debug("Beacon to %s => %s", endpoint, string(data))

		req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			log.Error(err)
			return
		}

		req.Header.Set("Content-Type", "application/json")

		if !utils.IsEmpty(b.options.UserAgent) {
			req.Header.Set("User-Agent", b.options.UserAgent)
		}

		resp, err := b.client.Do(req)
		if err != nil {
			// acceptable-loss telemetry channel
			log.Debug("Beacon delivery failed: %v", err)
			return
		}

		resp.Body.Close()

		beaconOutputCount.WithLabelValues(endpoint).Inc()
	}()
}

func NewBeaconOutput(wg *sync.WaitGroup, options BeaconOutputOptions) *BeaconOutput {

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30
	}

	return &BeaconOutput{
		wg:      wg,
		client:  &http.Client{Timeout: time.Second * time.Duration(timeout)},
		options: options,
	}
}

func init() {
	prometheus.Register(beaconOutputCount)
}
