package stemplay

// Decimate reduces samples to at most maxPoints by stride sampling, for
// plotting a track overview. The stride is chosen so short tracks come
// back unchanged.
func Decimate(samples []float32, maxPoints int) []float32 {
	if maxPoints <= 0 || len(samples) == 0 {
		return nil
	}
	step := len(samples) / maxPoints
	if step < 1 {
		step = 1
	}
	out := make([]float32, 0, (len(samples)+step-1)/step)
	for i := 0; i < len(samples); i += step {
		out = append(out, samples[i])
	}
	return out
}
