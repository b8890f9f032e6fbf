package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// KafkaHost is optional; when empty the event stream is disabled and
	// events reach webhook subscribers only.
	KafkaHost        string
	KafkaEventsTopic string

	// OrderAcceptTimer is the acceptance window as a Go duration string,
	// e.g. "15m". Empty uses the domain default.
	OrderAcceptTimer string

	// SweepSchedule is a six-field cron expression for the auto-accept sweep.
	SweepSchedule string

	// SweepBatchSize caps the orders processed per sweep run. Empty uses the
	// command default.
	SweepBatchSize string
}
