// Package sink runs a local development collector: it accepts beacon
// transmissions, enriches the sender user agent and logs the result. Nothing
// is persisted; the real collector is a separate system.
package sink

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"

	"github.com/avct/uasurfer"
	"github.com/devopsext/utils"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wego-track/tracker/common"
)

var log = utils.GetLog()

var sinkRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "tracker_sink_requests",
	Help: "Count of all sink requests",
}, []string{"tracker_sink_url"})

type HttpSinkOptions struct {
	Listen string
	Tls    bool
	Cert   string
	Key    string
	Chain  string
	URL    string
}

type HttpSink struct {
	options HttpSinkOptions
}

// AgentInfo is the uasurfer enrichment of the beacon sender's user agent.
type AgentInfo struct {
	DeviceType     string `json:"deviceType"`
	BrowserName    string `json:"browserName"`
	BrowserVersion string `json:"browserVersion"`
	OSPlatform     string `json:"osPlatform"`
	OSName         string `json:"osName"`
	OSVersion      string `json:"osVersion"`
}

type collectedEvent struct {
	Payload *common.EventPayload `json:"payload"`
	Agent   *AgentInfo           `json:"agent,omitempty"`
	Remote  string               `json:"remote,omitempty"`
}

func parseAgent(agent string) *AgentInfo {

	if utils.IsEmpty(agent) {
		return nil
	}

	ua := uasurfer.Parse(agent)
	if ua == nil {

		log.Warn("Can't parse user agent")
		return nil
	}

	return &AgentInfo{
		DeviceType:     ua.DeviceType.StringTrimPrefix(),
		BrowserName:    ua.Browser.Name.StringTrimPrefix(),
		BrowserVersion: fmt.Sprintf("%d.%d.%d", ua.Browser.Version.Major, ua.Browser.Version.Minor, ua.Browser.Version.Patch),
		OSPlatform:     ua.OS.Platform.StringTrimPrefix(),
		OSName:         ua.OS.Name.StringTrimPrefix(),
		OSVersion:      fmt.Sprintf("%d.%d.%d", ua.OS.Version.Major, ua.OS.Version.Minor, ua.OS.Version.Patch),
	}
}

func setupCors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
}

func (h *HttpSink) handleRequest(w http.ResponseWriter, r *http.Request) {

	setupCors(w)

	if r.Method == "OPTIONS" {
		w.WriteHeader(200)
		return
	}

	var body []byte

	if r.Body != nil {

		if data, err := io.ReadAll(r.Body); err == nil {
			body = data
		}
	}

	if len(body) == 0 {

		log.Error("Empty body")
		http.Error(w, "empty body", http.StatusBadRequest)
		return
	}

	log.Debug("Body => %s", body)

	contentType := r.Header.Get("Content-Type")

	if contentType != "application/json" {

		log.Error("Content-Type=%s, expect application/json", contentType)
		http.Error(w, "invalid Content-Type", http.StatusUnsupportedMediaType)
		return
	}

	var payload *common.EventPayload

	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("Can't unmarshal payload: %v", err)
		http.Error(w, fmt.Sprintf("could not unmarshal payload: %v", err), http.StatusBadRequest)
		return
	}

	collected := collectedEvent{
		Payload: payload,
		Agent:   parseAgent(r.Header.Get("User-Agent")),
		Remote:  r.RemoteAddr,
	}

	record, err := json.Marshal(collected)
	if err != nil {
		log.Error(err)
		http.Error(w, "could not marshal record", http.StatusInternalServerError)
		return
	}

	log.Info("Collected event => %s", string(record))

	if _, err := w.Write([]byte("OK\n")); err != nil {
		log.Error("Can't write response: %v", err)
	}
}

func (h *HttpSink) Start(wg *sync.WaitGroup) {

	wg.Add(1)

	go func(wg *sync.WaitGroup) {

		defer wg.Done()

		log.Info("Start http sink...")

		var caPool *x509.CertPool
		var certificates []tls.Certificate

		if h.options.Tls {

			// load certificate
			var cert []byte
			if _, err := os.Stat(h.options.Cert); err == nil {

				cert, err = os.ReadFile(h.options.Cert)
				if err != nil {
					log.Panic(err)
				}
			} else {
				cert = []byte(h.options.Cert)
			}

			// load key
			var key []byte
			if _, err := os.Stat(h.options.Key); err == nil {

				key, err = os.ReadFile(h.options.Key)
				if err != nil {
					log.Panic(err)
				}
			} else {
				key = []byte(h.options.Key)
			}

			pair, err := tls.X509KeyPair(cert, key)
			if err != nil {
				log.Panic(err)
			}

			certificates = append(certificates, pair)

			// load CA chain
			var chain []byte
			if _, err := os.Stat(h.options.Chain); err == nil {

				chain, err = os.ReadFile(h.options.Chain)
				if err != nil {
					log.Panic(err)
				}
			} else {
				chain = []byte(h.options.Chain)
			}

			caPool = x509.NewCertPool()
			if !caPool.AppendCertsFromPEM(chain) {
				log.Debug("CA chain is invalid")
			}
		}

		router := mux.NewRouter()

		if !utils.IsEmpty(h.options.URL) {

			router.HandleFunc(h.options.URL, func(w http.ResponseWriter, r *http.Request) {
				sinkRequests.WithLabelValues(r.URL.Path).Inc()
				h.handleRequest(w, r)
			})
		}

		listener, err := net.Listen("tcp", h.options.Listen)
		if err != nil {
			log.Panic(err)
		}

		log.Info("Http sink is up. Listening...")

		srv := &http.Server{Handler: router}

		if h.options.Tls {

			srv.TLSConfig = &tls.Config{
				Certificates: certificates,
				RootCAs:      caPool,
			}

			err = srv.ServeTLS(listener, "", "")
			if err != nil {
				log.Panic(err)
			}
		} else {
			err = srv.Serve(listener)
			if err != nil {
				log.Panic(err)
			}
		}

	}(wg)
}

func NewHttpSink(options HttpSinkOptions) *HttpSink {

	return &HttpSink{
		options: options,
	}
}

func init() {
	prometheus.Register(sinkRequests)
}
