package cmd

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"

	utils "github.com/devopsext/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wego-track/tracker/attribution"
	"github.com/wego-track/tracker/common"
	"github.com/wego-track/tracker/dom"
	"github.com/wego-track/tracker/input"
	"github.com/wego-track/tracker/output"
	"github.com/wego-track/tracker/processor"
	"github.com/wego-track/tracker/replay"
	"github.com/wego-track/tracker/sink"
	"github.com/wego-track/tracker/youtube"
)

var VERSION = "unknown"

var log = utils.GetLog()
var env = utils.GetEnvironment()

type rootOptions struct {
	LogFormat   string
	LogLevel    string
	LogTemplate string

	PrometheusURL    string
	PrometheusListen string
}

var rootOpts = rootOptions{

	LogFormat:   env.Get("TRACKER_LOG_FORMAT", "text").(string),
	LogLevel:    env.Get("TRACKER_LOG_LEVEL", "info").(string),
	LogTemplate: env.Get("TRACKER_LOG_TEMPLATE", "{{.func}} [{{.line}}]: {{.msg}}").(string),

	PrometheusURL:    env.Get("TRACKER_PROMETHEUS_URL", "/metrics").(string),
	PrometheusListen: env.Get("TRACKER_PROMETHEUS_LISTEN", "127.0.0.1:8080").(string),
}

type pageOptions struct {
	Document      string
	URL           string
	Referrer      string
	UserAgent     string
	ViewportWidth int
	Config        string
	Occurrences   string
}

var pageOpts = pageOptions{

	Document:      env.Get("TRACKER_PAGE_DOCUMENT", "").(string),
	URL:           env.Get("TRACKER_PAGE_URL", "").(string),
	Referrer:      env.Get("TRACKER_PAGE_REFERRER", "").(string),
	UserAgent:     env.Get("TRACKER_PAGE_USER_AGENT", "").(string),
	ViewportWidth: env.Get("TRACKER_PAGE_VIEWPORT_WIDTH", 1280).(int),
	Config:        env.Get("TRACKER_CONFIG", "").(string),
	Occurrences:   env.Get("TRACKER_OCCURRENCES", "").(string),
}

var beaconOutputOptions = output.BeaconOutputOptions{

	Timeout: env.Get("TRACKER_BEACON_TIMEOUT", 30).(int),
}

var httpSinkOptions = sink.HttpSinkOptions{

	Listen: env.Get("TRACKER_SINK_LISTEN", "127.0.0.1:8081").(string),
	Tls:    env.Get("TRACKER_SINK_TLS", false).(bool),
	Cert:   env.Get("TRACKER_SINK_CERT", "").(string),
	Key:    env.Get("TRACKER_SINK_KEY", "").(string),
	Chain:  env.Get("TRACKER_SINK_CHAIN", "").(string),
	URL:    env.Get("TRACKER_SINK_URL", "/v1/events").(string),
}

func startMetrics() {

	go func() {

		log.Info("Start metrics...")

		http.Handle(rootOpts.PrometheusURL, promhttp.Handler())

		listener, err := net.Listen("tcp", rootOpts.PrometheusListen)
		if err != nil {
			log.Panic(err)
		}

		log.Info("Metrics are up. Listening...")

		err = http.Serve(listener, nil)
		if err != nil {
			log.Panic(err)
		}

	}()
}

func interceptSyscall() {

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGKILL)
	go func() {
		<-c
		log.Info("Exiting...")
		os.Exit(1)
	}()
}

func runReplay() {

	log.Info("Booting...")

	var beacons sync.WaitGroup

	startMetrics()

	if utils.IsEmpty(pageOpts.Document) {
		log.Panic("Page document is not defined. Terminating...")
	}

	file, err := os.Open(pageOpts.Document)
	if err != nil {
		log.Panic(err)
	}

	doc, err := dom.ParseDocument(file)
	file.Close()

	if err != nil {
		log.Panic(err)
	}

	var pageURL *url.URL

	if !utils.IsEmpty(pageOpts.URL) {

		pageURL, err = url.Parse(pageOpts.URL)
		if err != nil {
			log.Panic(err)
		}
	}

	page := dom.NewPage(doc, pageURL)
	page.Referrer = pageOpts.Referrer
	page.UserAgent = pageOpts.UserAgent
	page.ViewportWidth = pageOpts.ViewportWidth

	api := youtube.NewSimulatedAPI()

	outputs := common.NewOutputs()

	beaconOutputOptions.UserAgent = pageOpts.UserAgent
	outputs.Add(output.NewBeaconOutput(&beacons, beaconOutputOptions))

	engine := processor.NewEngine(page, outputs, input.Handlers(api)...)

	attribution.CaptureOnce(page)
	attribution.FillMarkerFields(page)

	var raw []byte

	if !utils.IsEmpty(pageOpts.Config) {

		raw, err = os.ReadFile(pageOpts.Config)
		if err != nil {
			log.Panic(err)
		}
	}

	engine.Initialize(raw)

	var stream *os.File = os.Stdin

	if !utils.IsEmpty(pageOpts.Occurrences) && pageOpts.Occurrences != "-" {

		stream, err = os.Open(pageOpts.Occurrences)
		if err != nil {
			log.Panic(err)
		}
		defer stream.Close()
	}

	runner := replay.NewRunner(page, api)

	if err := runner.Run(stream); err != nil {
		log.Error("Replay failed: %v", err)
	}

	// drain in-flight beacons before exiting
	beacons.Wait()

	log.Info("Replay is done.")
}

func Execute() {

	rootCmd := &cobra.Command{
		Use:   "tracker",
		Short: "Tracker",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {

			log.CallInfo = true
			log.Init(rootOpts.LogFormat, rootOpts.LogLevel, rootOpts.LogTemplate)

		},
		Run: func(cmd *cobra.Command, args []string) {

			runReplay()
		},
	}

	flags := rootCmd.PersistentFlags()

	flags.StringVar(&rootOpts.LogFormat, "log-format", rootOpts.LogFormat, "Log format: json, text, stdout")
	flags.StringVar(&rootOpts.LogLevel, "log-level", rootOpts.LogLevel, "Log level: info, warn, error, debug, panic")
	flags.StringVar(&rootOpts.LogTemplate, "log-template", rootOpts.LogTemplate, "Log template")

	flags.StringVar(&rootOpts.PrometheusURL, "prometheus-url", rootOpts.PrometheusURL, "Prometheus endpoint url")
	flags.StringVar(&rootOpts.PrometheusListen, "prometheus-listen", rootOpts.PrometheusListen, "Prometheus listen")

	flags.StringVar(&pageOpts.Document, "page-document", pageOpts.Document, "Page document file (html)")
	flags.StringVar(&pageOpts.URL, "page-url", pageOpts.URL, "Page url")
	flags.StringVar(&pageOpts.Referrer, "page-referrer", pageOpts.Referrer, "Page referrer")
	flags.StringVar(&pageOpts.UserAgent, "page-user-agent", pageOpts.UserAgent, "Page user agent")
	flags.IntVar(&pageOpts.ViewportWidth, "page-viewport-width", pageOpts.ViewportWidth, "Page viewport width")
	flags.StringVar(&pageOpts.Config, "config", pageOpts.Config, "Tracking configuration file (json)")
	flags.StringVar(&pageOpts.Occurrences, "occurrences", pageOpts.Occurrences, "Occurrence stream file (jsonl), - for stdin")

	flags.IntVar(&beaconOutputOptions.Timeout, "beacon-timeout", beaconOutputOptions.Timeout, "Beacon http timeout (seconds)")

	flags.StringVar(&httpSinkOptions.Listen, "sink-listen", httpSinkOptions.Listen, "Sink listen")
	flags.BoolVar(&httpSinkOptions.Tls, "sink-tls", httpSinkOptions.Tls, "Sink TLS")
	flags.StringVar(&httpSinkOptions.Cert, "sink-cert", httpSinkOptions.Cert, "Sink cert file or content")
	flags.StringVar(&httpSinkOptions.Key, "sink-key", httpSinkOptions.Key, "Sink key file or content")
	flags.StringVar(&httpSinkOptions.Chain, "sink-chain", httpSinkOptions.Chain, "Sink CA chain file or content")
	flags.StringVar(&httpSinkOptions.URL, "sink-url", httpSinkOptions.URL, "Sink url")

	interceptSyscall()

	rootCmd.AddCommand(&cobra.Command{
		Use:   "sink",
		Short: "Run the development collector sink",
		Run: func(cmd *cobra.Command, args []string) {

			log.Info("Booting...")

			var wg sync.WaitGroup

			startMetrics()

			httpSink := sink.NewHttpSink(httpSinkOptions)
			httpSink.Start(&wg)

			wg.Wait()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(VERSION)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
