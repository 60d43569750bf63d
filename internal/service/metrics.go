package service

import "github.com/prometheus/client_golang/prometheus"

var paymentsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "rental_payments_total", Help: "Rental payment initiations by result"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(paymentsTotal) }
