package dto

// BookRequest asks the booking engine to book a whole draft or one entry.
type BookRequest struct {
	EntryID       *string `json:"entryID"`
	ForceWarnings bool    `json:"forceWarnings"`
}

// BookingResult reports the outcome of a booking call.
type BookingResult struct {
	Booked           bool             `json:"booked"`
	DraftCommitted   bool             `json:"draftCommitted"`
	PostingsCreated  int              `json:"postingsCreated"`
	RemainingEntries int              `json:"remainingEntries"`
	Validation       ValidationResult `json:"validation"`
}
