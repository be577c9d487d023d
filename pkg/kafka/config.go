package kafka

// Config holds Kafka connection parameters.
type Config struct {
	// SASL configuration for authentication against the brokers.
	SASLMechanism string // "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	// ClientID is reported to the brokers for request attribution.
	ClientID string

	Brokers []string

	// TLS enables TLS for broker connections.
	TLS         bool
	SASLEnabled bool
}
