package errors

import "fmt"

var (
	ErrInvalidInvestor = fmt.Errorf("invalid investor")
	ErrPersistence     = fmt.Errorf("investors could not be persisted")
	ErrCorruptSlot     = fmt.Errorf("stored investors are corrupt")
	ErrUnknownBackend  = fmt.Errorf("unknown slot backend")
	ErrUnknownLocale   = fmt.Errorf("unknown seed locale")
)
