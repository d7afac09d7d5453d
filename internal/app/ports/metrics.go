package ports

type SessionMetrics interface {
	RecordStep(frames int)
	RecordKills(n int)
	RecordWaveComplete(wave int)
	RecordGameOver()
	RecordConflict()
	RecordFailure()
}
