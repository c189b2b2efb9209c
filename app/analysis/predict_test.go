package analysis

import (
	"math"
	"testing"
	"time"
)

func series(values ...float64) []DataPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]DataPoint, len(values))
	for i, v := range values {
		points[i] = DataPoint{Value: v, Timestamp: start.AddDate(0, 0, i)}
	}
	return points
}

func TestPredictTrend_TooFewPoints(t *testing.T) {
	prediction := PredictTrend(series(1, 2), 0)

	if len(prediction.Forecast) != 0 {
		t.Errorf("Expected empty forecast, got %v", prediction.Forecast)
	}
	if prediction.Confidence != 0 {
		t.Errorf("Expected zero confidence, got %v", prediction.Confidence)
	}
	if prediction.Trend != TrendStable {
		t.Errorf("Expected stable trend, got %s", prediction.Trend)
	}
	if prediction.Timeframe != "4 weeks" {
		t.Errorf("Expected '4 weeks', got %q", prediction.Timeframe)
	}
}

func TestPredictTrend_Increasing(t *testing.T) {
	prediction := PredictTrend(series(1, 2, 3, 4, 5), 1)

	expected := []int{6, 7, 8, 9, 10, 11, 12}
	if len(prediction.Forecast) != len(expected) {
		t.Fatalf("Expected %d forecast values, got %d", len(expected), len(prediction.Forecast))
	}
	for i, v := range expected {
		if prediction.Forecast[i] != v {
			t.Errorf("Forecast[%d]: expected %d, got %d", i, v, prediction.Forecast[i])
		}
	}
	if prediction.Trend != TrendIncreasing {
		t.Errorf("Expected increasing, got %s", prediction.Trend)
	}
	if math.Abs(prediction.Confidence-1) > epsilon {
		t.Errorf("Expected confidence 1, got %v", prediction.Confidence)
	}
}

func TestPredictTrend_DecreasingNeverNegative(t *testing.T) {
	prediction := PredictTrend(series(10, 8, 6, 4), 1)

	if prediction.Trend != TrendDecreasing {
		t.Errorf("Expected decreasing, got %s", prediction.Trend)
	}
	if prediction.Forecast[0] != 2 {
		t.Errorf("Expected first forecast 2, got %d", prediction.Forecast[0])
	}
	for i, v := range prediction.Forecast {
		if v < 0 {
			t.Errorf("Forecast[%d] is negative: %d", i, v)
		}
	}
}

func TestPredictTrend_Flat(t *testing.T) {
	prediction := PredictTrend(series(3, 3, 3), 2)

	if prediction.Trend != TrendStable {
		t.Errorf("Expected stable, got %s", prediction.Trend)
	}
	if len(prediction.Forecast) != 14 {
		t.Errorf("Expected 14 forecast values, got %d", len(prediction.Forecast))
	}
}
