// Package query watches executed statements for N+1 access patterns: the
// same single-row lookup repeated many times inside a short window, which
// usually means a loop that should have used Include or an IN filter.
package query

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"
)

const (
	// MaxModels caps the model names kept per pattern.
	MaxModels = 10
	// DefaultMaxPatterns caps the tracked patterns.
	DefaultMaxPatterns = 1000
)

var (
	placeholderRe = regexp.MustCompile(`\$\d+`)
	inListRe      = regexp.MustCompile(`IN \((\?(, )?)+\)`)
)

// N1Detector counts normalized statements per time window.
type N1Detector struct {
	mu         sync.Mutex
	patterns   map[string]*PatternInfo
	maxSize    int
	threshold  int
	timeWindow time.Duration
	now        func() time.Time
}

// PatternInfo is what the detector knows about one normalized statement.
type PatternInfo struct {
	Pattern   string
	Count     int
	FirstSeen time.Time
	LastSeen  time.Time
	Models    []string
}

// N1Alert reports a pattern that crossed the threshold.
type N1Alert struct {
	Pattern    string
	Count      int
	Models     []string
	TimeWindow time.Duration
}

func (a N1Alert) String() string {
	return fmt.Sprintf("possible N+1: %q ran %d times in %v on %v", a.Pattern, a.Count, a.TimeWindow, a.Models)
}

// NewN1Detector alerts when one pattern runs threshold times within timeWindow.
func NewN1Detector(threshold int, timeWindow time.Duration) *N1Detector {
	return &N1Detector{
		patterns:   make(map[string]*PatternInfo),
		maxSize:    DefaultMaxPatterns,
		threshold:  threshold,
		timeWindow: timeWindow,
		now:        time.Now,
	}
}

// DefaultN1Detector alerts on 10 identical lookups within a second.
func DefaultN1Detector() *N1Detector {
	return NewN1Detector(10, time.Second)
}

// Record counts one execution of sql against model.
func (d *N1Detector) Record(sql, model string) {
	if d == nil {
		return
	}
	pattern := Normalize(sql)
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	info, ok := d.patterns[pattern]
	if ok && now.Sub(info.FirstSeen) > d.timeWindow {
		delete(d.patterns, pattern)
		ok = false
	}
	if !ok {
		if len(d.patterns) >= d.maxSize {
			d.evictOldest()
		}
		info = &PatternInfo{Pattern: pattern, FirstSeen: now}
		d.patterns[pattern] = info
	}
	info.Count++
	info.LastSeen = now
	if len(info.Models) < MaxModels && !contains(info.Models, model) {
		info.Models = append(info.Models, model)
	}
}

// Check returns the patterns over threshold in the current window and
// forgets expired ones. Alerts are ordered by count, highest first.
func (d *N1Detector) Check() []N1Alert {
	if d == nil {
		return nil
	}
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	var alerts []N1Alert
	for pattern, info := range d.patterns {
		if now.Sub(info.FirstSeen) > d.timeWindow {
			delete(d.patterns, pattern)
			continue
		}
		if info.Count >= d.threshold {
			alerts = append(alerts, N1Alert{
				Pattern:    pattern,
				Count:      info.Count,
				Models:     append([]string(nil), info.Models...),
				TimeWindow: info.LastSeen.Sub(info.FirstSeen),
			})
		}
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].Count > alerts[j].Count })
	return alerts
}

// StartMonitoring checks every interval until ctx is done and hands
// non-empty alert sets to callback. The returned channel closes when the
// monitor goroutine has exited.
func (d *N1Detector) StartMonitoring(ctx context.Context, interval time.Duration, callback func([]N1Alert)) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if alerts := d.Check(); len(alerts) > 0 && callback != nil {
					callback(alerts)
				}
			}
		}
	}()
	return done
}

func (d *N1Detector) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, info := range d.patterns {
		if oldestKey == "" || info.FirstSeen.Before(oldest) {
			oldestKey = key
			oldest = info.FirstSeen
		}
	}
	delete(d.patterns, oldestKey)
}

// Normalize folds bind parameters so that lookups differing only by value
// share a pattern.
func Normalize(sql string) string {
	s := placeholderRe.ReplaceAllString(sql, "?")
	return inListRe.ReplaceAllString(s, "IN (...)")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
