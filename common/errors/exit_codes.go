package errors

type ExitCode int

const (
	GenericFailureExitCode ExitCode = 1

	// Bad flags or arguments
	UsageExitCode ExitCode = 2

	// Configuration could not be found, parsed or validated
	ConfigFailureExitCode ExitCode = 70

	// Input could not be opened or read
	InputFailureExitCode ExitCode = 80

	// The producer rejected a line and the run was configured to stop on rejection
	RejectedInputExitCode ExitCode = 90

	// Output could not be written
	OutputFailureExitCode ExitCode = 100

	// Admin http server failed
	ServerFailureExitCode ExitCode = 110
)
