package enums

import "fmt"

// OrderStatus tracks the lifecycle of a lending order.
//
// checked_out -> overdue is triggered only by the overdue sweep once the due
// date has passed; checked_out -> returned and overdue -> returned are
// triggered only by a return. returned is terminal.
type OrderStatus string

const (
	OrderStatusCheckedOut OrderStatus = "checked_out"
	OrderStatusOverdue    OrderStatus = "overdue"
	OrderStatusReturned   OrderStatus = "returned"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusCheckedOut,
	OrderStatusOverdue,
	OrderStatusReturned,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions may leave this status.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusReturned
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
