package domain

// Status transition rules. INACTIVE, PAID, VOID, RECEIVED, CANCELLED, APR
// and ANU are all terminal; updates are only allowed from the initial state.

func CanUpdateRecord(entity, status string) error {
	if status != StatusActive {
		return &TransitionError{Entity: entity, Operation: "update", Status: status}
	}
	return nil
}

func CanDeactivateRecord(entity, status string) error {
	if status != StatusActive {
		return &TransitionError{Entity: entity, Operation: "deactivate", Status: status}
	}
	return nil
}

func CanUpdateInvoice(status string) error {
	if status != PaymentPending {
		return &TransitionError{Entity: "invoice", Operation: "update", Status: status}
	}
	return nil
}

func CanVoidInvoice(status string) error {
	if status != PaymentPending {
		return &TransitionError{Entity: "invoice", Operation: "void", Status: status}
	}
	return nil
}

func CanMarkInvoicePaid(status string) error {
	if status != PaymentPending {
		return &TransitionError{Entity: "invoice", Operation: "mark paid", Status: status}
	}
	return nil
}

func CanReceivePurchaseOrder(status string) error {
	if status != OrderPending {
		return &TransitionError{Entity: "purchase order", Operation: "receive", Status: status}
	}
	return nil
}

func CanCancelPurchaseOrder(status string) error {
	if status != OrderPending {
		return &TransitionError{Entity: "purchase order", Operation: "cancel", Status: status}
	}
	return nil
}

func CanApproveReceipt(status string) error {
	if status != ReceiptActive {
		return &TransitionError{Entity: "receipt", Operation: "approve", Status: status}
	}
	return nil
}

func CanVoidReceipt(status string) error {
	if status != ReceiptActive {
		return &TransitionError{Entity: "receipt", Operation: "void", Status: status}
	}
	return nil
}
