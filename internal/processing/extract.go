package processing

import (
	"context"

	"github.com/soltixdb/sfb/internal/analytics"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/utils"
)

// Extract converts records to a Sample. Records with a missing or null value are
// skipped silently; records whose value is not numeric are skipped with a warning.
// Timestamps are kept aligned with the surviving values. The second result is the
// number of records dropped.
func (p *Processor) Extract(ctx context.Context, dataset string, records []RawRecord) (analytics.Sample, int) {
	sample := analytics.Sample{
		Values:     make([]float64, 0, len(records)),
		Timestamps: make([]*string, 0, len(records)),
	}
	dropped := 0

	for i, rec := range records {
		var value, timestamp interface{}
		if m, ok := rec.(map[string]interface{}); ok {
			value = m["value"]
			timestamp = m["timestamp"]
		} else {
			value = rec
		}

		if value == nil {
			dropped++
			continue
		}

		f, ok := utils.ToFloat64(value)
		if !ok {
			dropped++
			logging.FromContext(ctx).WithContext(ctx).Warn("Skipping non-numeric value",
				"dataset", dataset,
				"index", i,
				"value", value,
			)
			continue
		}

		sample.Append(f, utils.ToOptionalString(timestamp))
	}

	return sample, dropped
}
