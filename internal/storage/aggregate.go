// ABOUTME: Aggregation helper shared by stores that filter samples in Go.
// ABOUTME: Sums or averages values according to the metric's aggregation.
package storage

import (
	"fmt"

	"github.com/harperreed/vitals/internal/models"
)

// Combine folds values into one daily figure for mt. Empty input is ErrNoSamples.
func Combine(mt models.MetricType, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("aggregate %s: %w", mt, ErrNoSamples)
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	if mt.Aggregation() == models.AggregateSum {
		return sum, nil
	}
	return sum / float64(len(values)), nil
}
