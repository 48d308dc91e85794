package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfig represents malformed site configuration entries
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeNavigation represents page load/navigation failures
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeRenderTimeout represents wait-for-selector timeouts
	ErrorTypeRenderTimeout ErrorType = "render_timeout"
	// ErrorTypeExtraction represents DOM extraction failures
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeValidation represents request validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
)

// ScrapeError represents a scraper-specific error
type ScrapeError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNavigation:
		return true
	case ErrorTypeRenderTimeout:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, source, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewConfig creates a new configuration error
func NewConfig(source, message string, err error) *ScrapeError {
	return New(ErrorTypeConfig, source, message, err)
}

// NewNavigation creates a new navigation error
func NewNavigation(source, message string, err error) *ScrapeError {
	return New(ErrorTypeNavigation, source, message, err)
}

// NewRenderTimeout creates a new render timeout error
func NewRenderTimeout(source string, timeout time.Duration) *ScrapeError {
	message := fmt.Sprintf("render wait exceeded %v", timeout)
	return New(ErrorTypeRenderTimeout, source, message, nil)
}

// NewExtraction creates a new extraction error
func NewExtraction(source, message string, err error) *ScrapeError {
	return New(ErrorTypeExtraction, source, message, err)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *ScrapeError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewCache creates a new cache error
func NewCache(source, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, source, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(source, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, source, message, err)
}

// IsType reports whether err is a ScrapeError of the given type
func IsType(err error, errType ErrorType) bool {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.Type == errType
	}
	return false
}

// TypeOf returns the error type of err, or an empty type for plain errors
func TypeOf(err error) ErrorType {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.Type
	}
	return ErrorType("")
}
