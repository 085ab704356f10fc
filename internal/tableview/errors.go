package tableview

import "errors"

var (
	// ErrEmptyResult is returned when exporting a view with no visible rows.
	ErrEmptyResult = errors.New("no data to export")

	// ErrUnknownFilter is returned for a filter key the schema does not define.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrUnknownColumn is returned when sorting by a column the schema does not define.
	ErrUnknownColumn = errors.New("unknown column")
)
