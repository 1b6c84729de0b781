package pricecheck

import "errors"

// Soft terminal states of a pipeline run. They are returned together with a
// partial Report carrying the counts reached, so callers can show the user
// how far the run got before going empty.
var (
	// ErrNoResults signals that the search collaborator returned nothing.
	ErrNoResults = errors.New("no search results")
	// ErrNoValidListings signals that no listing survived qualification
	// with an extractable price.
	ErrNoValidListings = errors.New("no valid price data")
	// ErrTooVariable signals that outlier filtering discarded the whole
	// sample.
	ErrTooVariable = errors.New("price sample too variable to analyze")
)
