package wizard

import "errors"

var (
	ErrNoProfile       = errors.New("no profile captured")
	ErrNoDraft         = errors.New("no draft generated")
	ErrUnknownDraft    = errors.New("unknown draft")
	ErrNoPreview       = errors.New("no rendered preview")
	ErrPaymentRequired = errors.New("payment not completed")
)
