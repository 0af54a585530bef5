package golden

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
type Hooks interface {
	// A stored artifact was deleted on read.
	// reason ∈ {"corrupt", "checksum"}
	SelfHeal(storageKey, reason string)

	// A bundle read was rejected and fell back to single artifacts.
	// reason ∈ {"decode_error", "incomplete"}
	BundleRejected(namespace string, requested int, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string, isBundle bool)

	// A stored artifact did not match its fixture.
	VerifyFailed(name string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)            {}
func (NopHooks) BundleRejected(string, int, string) {}
func (NopHooks) ProviderSetRejected(string, bool)   {}
func (NopHooks) VerifyFailed(string, error)         {}
