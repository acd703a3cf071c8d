package wire

// Result is the outcome a stub reports with a response or attribute update.
type Result uint8

const (
	// ResultOK indicates the data is valid.
	ResultOK Result = 0

	// ResultInvalid indicates the stub rejected the request or invalidated
	// the attribute.
	ResultInvalid Result = 1

	// ResultError indicates the stub failed unexpectedly.
	ResultError Result = 2

	// ResultBusy indicates the request is already being processed.
	ResultBusy Result = 3

	// ResultCanceled indicates the request was canceled before completion.
	ResultCanceled Result = 4

	// ResultUnavailable indicates the stub has no data to offer.
	ResultUnavailable Result = 5
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultInvalid:
		return "INVALID"
	case ResultError:
		return "ERROR"
	case ResultBusy:
		return "BUSY"
	case ResultCanceled:
		return "CANCELED"
	case ResultUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true for known results.
func (r Result) IsValid() bool {
	return r <= ResultUnavailable
}

// IsSuccess returns true if the result indicates valid data.
func (r Result) IsSuccess() bool {
	return r == ResultOK
}
