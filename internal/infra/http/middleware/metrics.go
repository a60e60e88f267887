package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	membersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "members_created_total",
			Help: "Total members created from intake events",
		},
		[]string{"source"},
	)

	membersMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "members_merged_total",
			Help: "Total intake events merged into an existing member",
		},
	)

	assignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followup_assignments_total",
			Help: "Total follow-up assignments created",
		},
		[]string{"reassigned"},
	)

	capacityExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "followup_capacity_exhausted_total",
			Help: "Assignments made with every volunteer at capacity",
		},
	)

	attendanceMarks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_marks_total",
			Help: "Attendance markings by branch taken",
		},
		[]string{"branch"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordMemberCreated(source string) {
	membersCreated.WithLabelValues(source).Inc()
}

func RecordMemberMerged() {
	membersMerged.Inc()
}

func RecordAssignment(wasReassigned bool) {
	assignmentsTotal.WithLabelValues(strconv.FormatBool(wasReassigned)).Inc()
}

func RecordCapacityExhausted() {
	capacityExhausted.Inc()
}

func RecordAttendanceMark(created bool) {
	branch := "updated"
	if created {
		branch = "created"
	}
	attendanceMarks.WithLabelValues(branch).Inc()
}
