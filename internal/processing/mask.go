package processing

import (
	"strings"

	"github.com/samber/lo"

	"github.com/soltixdb/sfb/internal/utils"
)

// Masker replaces sensitive record fields with a fixed marker
type Masker struct {
	fields map[string]struct{}
}

// NewMasker creates a masker for the given field names. Blank and duplicate names are ignored.
func NewMasker(fields []string) *Masker {
	names := lo.Uniq(lo.Compact(lo.Map(fields, func(f string, _ int) string {
		return strings.TrimSpace(f)
	})))
	return &Masker{
		fields: lo.SliceToMap(names, func(f string) (string, struct{}) {
			return f, struct{}{}
		}),
	}
}

// Fields returns the masked field names
func (m *Masker) Fields() []string {
	return lo.Keys(m.fields)
}

// Enabled reports whether any field is masked
func (m *Masker) Enabled() bool {
	return m != nil && len(m.fields) > 0
}

// Apply returns records with masked fields replaced. Map records are copied;
// the input is never modified. Non-map records pass through unchanged.
func (m *Masker) Apply(records []RawRecord) []RawRecord {
	if !m.Enabled() {
		return records
	}

	out := make([]RawRecord, len(records))
	for i, rec := range records {
		src, ok := rec.(map[string]interface{})
		if !ok {
			out[i] = rec
			continue
		}

		masked := make(map[string]interface{}, len(src))
		for k, v := range src {
			if _, sensitive := m.fields[k]; sensitive {
				masked[k] = utils.MaskedValue
				continue
			}
			masked[k] = v
		}
		out[i] = masked
	}
	return out
}
