package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	tasksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_created_total",
			Help: "Total tasks created",
		},
	)
	submissionsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "submissions_recorded_total",
			Help: "Total worker submissions recorded",
		},
	)
)

func init() {
	prometheus.MustRegister(tasksCreated)
	prometheus.MustRegister(submissionsRecorded)
}
