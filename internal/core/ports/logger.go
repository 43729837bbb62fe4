package ports

// Logger reports progress and failures to the user.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info reports progress.
	Info(msg string)
	// Warn reports a suspicious but valid project, such as a binary without resources.
	Warn(msg string)
	// Error reports a failed command together with the metadata of its error chain.
	Error(err error)
}
