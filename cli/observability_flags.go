package cli

import (
	"context"
	"net/http"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type observabilityFlags struct {
	metricsListenAddr string
}

func (c *observabilityFlags) setup(a *App, app *kingpin.Application) {
	app.Flag("metrics-listen-addr", "Expose Prometheus metrics on a given host:port").Hidden().StringVar(&c.metricsListenAddr)
}

// start exposes the metrics listener when an address is specified.
func (c *observabilityFlags) start(ctx context.Context) {
	if c.metricsListenAddr == "" {
		return
	}

	m := mux.NewRouter()
	m.Handle("/metrics", promhttp.Handler())

	log(ctx).Infof("starting prometheus metrics on %v", c.metricsListenAddr)

	go http.ListenAndServe(c.metricsListenAddr, m) //nolint:errcheck,gosec
}
