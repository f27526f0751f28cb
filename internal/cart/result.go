package cart

// Operation names a cart mutation.
type Operation string

const (
	OperationAdd          Operation = "add"
	OperationRemove       Operation = "remove"
	OperationUpdateAmount Operation = "update_amount"
)

// Outcome is the result variant of an operation.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeIgnored       Outcome = "ignored"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeOutOfStock    Outcome = "out_of_stock"
	OutcomeFetchFailed   Outcome = "fetch_failed"
	OutcomeStorageFailed Outcome = "storage_failed"
)

// User-facing messages. Each operation has one generic failure message;
// the out-of-stock message is shared by add and update.
const (
	MessageAddFailed    = "Error adding product"
	MessageRemoveFailed = "Error removing product"
	MessageUpdateFailed = "Error changing product amount"
	MessageOutOfStock   = "Requested amount out of stock"
)

// Result reports what an operation did. Items is always the cart as it stands
// after the operation, unchanged unless Outcome is OutcomeOK.
type Result struct {
	Operation Operation
	Outcome   Outcome
	ProductID int
	Items     []LineItem
	Err       error
}

// Committed reports whether the cart was mutated and persisted.
func (r Result) Committed() bool {
	return r.Outcome == OutcomeOK
}

// Notice returns the user-facing message for the result, or "" when nothing
// should be shown.
func (r Result) Notice() string {
	switch r.Outcome {
	case OutcomeOK, OutcomeIgnored:
		return ""
	case OutcomeOutOfStock:
		return MessageOutOfStock
	}
	switch r.Operation {
	case OperationAdd:
		return MessageAddFailed
	case OperationRemove:
		return MessageRemoveFailed
	case OperationUpdateAmount:
		return MessageUpdateFailed
	}
	return ""
}
