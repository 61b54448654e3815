package metrics

import (
	"context"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/troopsched/core/metrics"
	"github.com/kilianp07/troopsched/infra/logger"
)

// InfluxSink writes run results to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the instance and returns a NopSink when the
// health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.RunSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordWeek writes one week_result point. Score components become
// prefixed fields.
func (s *InfluxSink) RecordWeek(rec coremetrics.WeekRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, weekPoint(rec))
}

// RecordEscalation writes one escalation point.
func (s *InfluxSink) RecordEscalation(rec coremetrics.EscalationRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("escalation").
		AddTag("run_id", rec.RunID).
		AddTag("week", weekLabel(rec.Week)).
		AddTag("tier", rec.Tier).
		AddTag("outcome", rec.Outcome).
		AddField("troop", rec.Troop).
		AddField("activity", rec.Activity).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func weekPoint(rec coremetrics.WeekRecord) *write.Point {
	p := write.NewPointWithMeasurement("week_result").
		AddTag("run_id", rec.RunID).
		AddTag("week", weekLabel(rec.Week)).
		AddField("score", round3(rec.Score)).
		AddField("troops", rec.Troops).
		AddField("entries", rec.Entries).
		AddField("shared_sessions", rec.SharedSessions).
		AddField("hard_violations", rec.HardViolations).
		AddField("unresolved", rec.Unresolved).
		AddField("staff_mean", round3(rec.StaffMean)).
		AddField("staff_stddev", round3(rec.StaffStdDev)).
		AddField("duration_ms", round3(rec.Duration.Seconds()*1000)).
		SetTime(rec.Time)
	keys := make([]string, 0, len(rec.Components))
	for k := range rec.Components {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.AddField("score_"+k, round3(rec.Components[k]))
	}
	return p
}

func weekLabel(w int) string {
	return strconv.Itoa(w)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
