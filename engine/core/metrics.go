package core

// FrameAverageCount is the number of frames averaged into FrameTime.
const FrameAverageCount = 30

// FrameMetrics tracks frames per second and an average frame time in
// milliseconds over the last FrameAverageCount frames.
type FrameMetrics struct {
	counter       int
	times         [FrameAverageCount]float64
	averageMS     float64
	frames        int
	accumulatedMS float64
	fps           float64
}

// Update records one frame that took elapsed seconds.
func (m *FrameMetrics) Update(elapsed float64) {
	frameMS := elapsed * 1000.0
	m.times[m.counter] = frameMS
	if m.counter == FrameAverageCount-1 {
		sum := 0.0
		for _, t := range m.times {
			sum += t
		}
		m.averageMS = sum / FrameAverageCount
	}
	m.counter = (m.counter + 1) % FrameAverageCount

	m.accumulatedMS += frameMS
	if m.accumulatedMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedMS -= 1000
		m.frames = 0
	}
	m.frames++
}

func (m *FrameMetrics) FPS() float64 {
	return m.fps
}

func (m *FrameMetrics) FrameTime() float64 {
	return m.averageMS
}
