// Package metrics accumulates per-trial series during a tuning run and
// produces aggregate statistics for the final report.
package metrics

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Point is a single recorded observation within a named series.
type Point struct {
	Trial     int
	Value     float64
	Timestamp time.Time
}

// Aggregation holds summary statistics over one series.
type Aggregation struct {
	Count  int
	Sum    float64
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	P50    float64
	P95    float64
}

// Summary is the aggregate view of every series a run produced.
type Summary struct {
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	Aggregations map[string]*Aggregation
}

// Collector collects named per-trial series during a tuning run. It is safe
// for concurrent use.
type Collector struct {
	mu sync.RWMutex

	startTime time.Time
	endTime   time.Time

	series map[string][]Point
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		series:    make(map[string][]Point),
	}
}

// Start marks the start of metric collection.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()
}

// Stop marks the end of metric collection.
func (c *Collector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endTime = time.Now()
}

// Record appends a value observed on the given trial to the named series.
func (c *Collector) Record(name string, trial int, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.series[name] = append(c.series[name], Point{
		Trial:     trial,
		Value:     value,
		Timestamp: time.Now(),
	})
}

// Series returns a copy of the points recorded under name, in record order.
func (c *Collector) Series(name string) []Point {
	c.mu.RLock()
	defer c.mu.RUnlock()

	points := c.series[name]
	if points == nil {
		return nil
	}
	result := make([]Point, len(points))
	copy(result, points)
	return result
}

// SeriesNames returns the names of all recorded series, sorted.
func (c *Collector) SeriesNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.series))
	for name := range c.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aggregate computes summary statistics for one series. It returns nil when
// the series is empty or unknown.
func (c *Collector) Aggregate(name string) *Aggregation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return aggregate(c.series[name])
}

// Summarize computes aggregations for every series recorded so far.
func (c *Collector) Summarize() *Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	end := c.endTime
	if end.IsZero() {
		end = time.Now()
	}

	summary := &Summary{
		StartTime:    c.startTime,
		EndTime:      end,
		Duration:     end.Sub(c.startTime),
		Aggregations: make(map[string]*Aggregation, len(c.series)),
	}
	for name, points := range c.series {
		if agg := aggregate(points); agg != nil {
			summary.Aggregations[name] = agg
		}
	}
	return summary
}

// Clear discards all collected series.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.series = make(map[string][]Point)
	c.startTime = time.Now()
	c.endTime = time.Time{}
}

func aggregate(points []Point) *Aggregation {
	if len(points) == 0 {
		return nil
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	sort.Float64s(values)

	mean, std := stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}

	return &Aggregation{
		Count:  len(values),
		Sum:    floats.Sum(values),
		Min:    values[0],
		Max:    values[len(values)-1],
		Mean:   mean,
		StdDev: std,
		P50:    stat.Quantile(0.50, stat.Empirical, values, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, values, nil),
	}
}
