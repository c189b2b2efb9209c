package analysis

import (
	"fmt"
	"math"
	"time"
)

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"

	slopeThreshold   = 0.1
	minPredictPoints = 3
	defaultWeeks     = 4
)

type DataPoint struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

type Prediction struct {
	Forecast   []int   `json:"forecast"`
	Confidence float64 `json:"confidence"`
	Timeframe  string  `json:"timeframe"`
	Trend      string  `json:"trend"`
}

// PredictTrend fits a least-squares line through the points and projects one
// value per day for the requested number of weeks.
func PredictTrend(points []DataPoint, weeks int) Prediction {
	if weeks <= 0 {
		weeks = defaultWeeks
	}

	prediction := Prediction{
		Forecast:   []int{},
		Confidence: 0,
		Timeframe:  fmt.Sprintf("%d weeks", weeks),
		Trend:      TrendStable,
	}

	n := float64(len(points))
	if len(points) < minPredictPoints {
		return prediction
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	last := len(points) - 1
	for i := 1; i <= weeks*7; i++ {
		predicted := math.Max(0, slope*float64(last+i)+intercept)
		prediction.Forecast = append(prediction.Forecast, int(math.Round(predicted)))
	}

	var totalError float64
	for i, p := range points {
		totalError += math.Abs(p.Value - (slope*float64(i) + intercept))
	}
	meanError := totalError / n
	meanValue := sumY / n
	if meanValue > 0 {
		prediction.Confidence = clamp01(1 - meanError/meanValue)
	}

	switch {
	case slope > slopeThreshold:
		prediction.Trend = TrendIncreasing
	case slope < -slopeThreshold:
		prediction.Trend = TrendDecreasing
	}

	return prediction
}
