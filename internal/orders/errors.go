package orders

import "errors"

// Sentinel errors for the order pipeline. Handlers translate these to
// HTTP statuses with errors.Is; anything unrecognized is a 500.
var (
	// ErrValidation covers malformed input: empty item list, negative
	// quantity or price, malformed tracking history.
	ErrValidation = errors.New("invalid order input")

	// ErrInvalidStatus is returned for a status outside the fixed
	// five-value allow-list.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrShippingUnavailable means the method is not offered at the
	// destination (e.g. gosend beyond its radius). Nothing is persisted.
	ErrShippingUnavailable = errors.New("shipping method not available for this destination")

	// ErrNotFound means the order does not exist.
	ErrNotFound = errors.New("order not found")

	// ErrForbidden means the requester is neither the order's owner
	// nor an admin.
	ErrForbidden = errors.New("not allowed to access this order")

	// ErrNoTrackingNumber means there is nothing to refresh yet.
	ErrNoTrackingNumber = errors.New("order has no tracking number yet")

	// ErrCarrier wraps a failed or empty carrier lookup. Transient;
	// safe to retry.
	ErrCarrier = errors.New("carrier lookup failed")
)
