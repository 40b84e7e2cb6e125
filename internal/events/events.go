// Package events publishes summaries of generated statistical packages.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/soltixdb/sfb/internal/analytics/engine"
	"github.com/soltixdb/sfb/internal/compression"
	"github.com/soltixdb/sfb/internal/config"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/queue"
	"github.com/soltixdb/sfb/internal/utils"
)

// Header names attached to every event
const (
	HeaderContentType     = "Content-Type"
	HeaderContentEncoding = "Content-Encoding"
	HeaderDataset         = "Sfb-Dataset"
)

// PackageEvent summarizes one generated package
type PackageEvent struct {
	RequestID        string    `json:"request_id"`
	Dataset          string    `json:"dataset"`
	Period           string    `json:"period"`
	User             string    `json:"user,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
	DataPoints       int       `json:"data_points"`
	Mean             float64   `json:"mean"`
	StdDev           float64   `json:"std_dev"`
	TrendDirection   string    `json:"trend_direction"`
	OutliersDetected int       `json:"outliers_detected"`
	DistributionType string    `json:"distribution_type"`
}

// NewPackageEvent builds the summary of pkg
func NewPackageEvent(requestID, dataset, period, user string, pkg *engine.Package, at time.Time) PackageEvent {
	ev := PackageEvent{
		RequestID:   requestID,
		Dataset:     dataset,
		Period:      period,
		User:        user,
		GeneratedAt: at.UTC(),
	}
	if pkg == nil {
		return ev
	}
	if pkg.Statistics != nil {
		ev.DataPoints = pkg.Statistics.Count
		ev.Mean = pkg.Statistics.Mean
		ev.StdDev = pkg.Statistics.StdDev
	}
	if pkg.Trends != nil {
		ev.TrendDirection = string(pkg.Trends.TrendDirection)
	}
	ev.OutliersDetected = len(pkg.Outliers)
	ev.DistributionType = string(pkg.DistributionType)
	return ev
}

// Encode serializes ev as JSON and compresses it with codec (nil means none)
func Encode(ev PackageEvent, codec compression.Codec) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	if compression.IsIdentity(codec) {
		return data, nil
	}
	out, err := codec.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compress event: %w", err)
	}
	return out, nil
}

// Decode reverses Encode
func Decode(data []byte, codec compression.Codec) (PackageEvent, error) {
	var ev PackageEvent
	if !compression.IsIdentity(codec) {
		raw, err := codec.Decompress(data)
		if err != nil {
			return ev, fmt.Errorf("failed to decompress event: %w", err)
		}
		data = raw
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("failed to decode event: %w", err)
	}
	return ev, nil
}

// Publisher sends package events to a queue. A nil *Publisher is disabled.
type Publisher struct {
	queue    queue.Publisher
	subject  string
	codec    compression.Codec
	timeout  time.Duration
	logger   *logging.Logger
}

// NewPublisher returns nil when events are disabled
func NewPublisher(cfg config.EventsConfig, q queue.Publisher, logger *logging.Logger) (*Publisher, error) {
	if !cfg.Enabled || q == nil {
		return nil, nil
	}
	codec, err := compression.Lookup(cfg.Compression)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &Publisher{
		queue:   q,
		subject: cfg.Subject,
		codec:   codec,
		timeout: utils.PublishTimeout,
		logger:  logger,
	}, nil
}

// Enabled reports whether events are published
func (p *Publisher) Enabled() bool {
	return p != nil
}

// Subject returns the destination subject
func (p *Publisher) Subject() string {
	if p == nil {
		return ""
	}
	return p.subject
}

// Publish sends ev. It is detached from ctx cancellation and bounded by utils.PublishTimeout.
func (p *Publisher) Publish(ctx context.Context, ev PackageEvent) error {
	if p == nil {
		return nil
	}

	data, err := Encode(ev, p.codec)
	if err != nil {
		return err
	}

	headers := map[string]string{
		HeaderContentType: "application/json",
		HeaderDataset:     ev.Dataset,
	}
	if !compression.IsIdentity(p.codec) {
		headers[HeaderContentEncoding] = p.codec.Encoding()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	key := ev.RequestID
	if key != "" {
		key = key + ":" + ev.Dataset
	}

	if err := p.queue.Publish(ctx, queue.Message{
		Subject: p.subject,
		Key:     key,
		Headers: headers,
		Data:    data,
	}); err != nil {
		p.logger.Warn("Failed to publish package event",
			"subject", p.subject,
			"dataset", ev.Dataset,
			"request_id", ev.RequestID,
			"error", err)
		return err
	}

	p.logger.Debug("Published package event", "subject", p.subject, "dataset", ev.Dataset, "bytes", len(data))
	return nil
}

// Close closes the underlying queue
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.queue.Close()
}
