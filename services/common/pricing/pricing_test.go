package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote_Scenarios(t *testing.T) {
	cases := []struct {
		name  string
		lines []Line
		want  Totals
	}{
		{"at threshold pays shipping", []Line{{50, 2}}, Totals{100, 10, 10, 120}},
		{"above threshold ships free", []Line{{60, 2}}, Totals{120, 12, 0, 132}},
		{"small order", []Line{{9.99, 1}}, Totals{9.99, 1, 10, 20.99}},
		{"mixed lines", []Line{{19.99, 3}, {5.25, 2}}, Totals{70.47, 7.05, 10, 87.52}},
		{"empty", nil, Totals{0, 0, 10, 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, QuoteLines(tc.lines))
		})
	}
}

func TestQuote_TotalIdentity(t *testing.T) {
	for _, sub := range []float64{0.01, 33.33, 99.99, 100, 100.01, 250.5, 1234.56} {
		q := Quote(sub)
		want := sub + sub*TaxRate
		if sub <= FreeShippingThreshold {
			want += FlatShipping
		}
		assert.InDelta(t, want, q.Total, 0.0051, "subtotal %.2f", sub)
		assert.Equal(t, q.Total, Round2(q.Subtotal+q.Tax+q.Shipping))
	}
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 59.97, LineTotal(19.99, 3))
	assert.Equal(t, 0.0, LineTotal(12, 0))
}
