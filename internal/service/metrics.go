package service

import "github.com/prometheus/client_golang/prometheus"

var profileOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{Namespace: "devprofile", Name: "profile_operations_total", Help: "Profile and account mutations by outcome"},
	[]string{"op", "result"},
)

func init() { prometheus.MustRegister(profileOps) }

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	profileOps.WithLabelValues(op, result).Inc()
}
