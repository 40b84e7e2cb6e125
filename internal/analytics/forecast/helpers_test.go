package forecast

// generateLinearData creates test data with linear pattern: y = slope * x + intercept
func generateLinearData(n int, slope, intercept float64) []float64 {
	data := make([]float64, n)
	for i := 0; i < n; i++ {
		data[i] = slope*float64(i) + intercept
	}
	return data
}

func constantData(n int, value float64) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = value
	}
	return data
}
