package errors

type ExitCode int

const (
	// Initialization was given flags or a policy it does not recognize.
	// Fatal: no further scheduler calls are valid after this.
	InvalidConfigExitCode ExitCode = 64

	// The wire payload could not be decoded with the configured format.
	DeserializeFailureExitCode = 65

	// The decision batch could not be encoded.
	SerializeFailureExitCode = 66

	// Transport setup (bind/dial) failed.
	TransportFailureExitCode = 70
)
