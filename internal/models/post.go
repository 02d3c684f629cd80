package models

// Post is a problem write-up: a problem reference, a title, the solution
// code, optional notes and an optional image locator (a public URL for the
// hosted blob flavor, an /uploads path for the local one).
//
// Date is kept as a display-ready "YYYY-MM-DD HH:MM" string across both
// read and write paths; it is captured server-side at insert and never
// client-supplied.
type Post struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	UserID    uint    `json:"userId" gorm:"index;not null"`
	ProblemNo string  `json:"problemNo"`
	Title     string  `json:"title"`
	Code      string  `json:"code"`
	Image     *string `json:"image,omitempty"`
	Notes     string  `json:"notes"`
	Date      string  `json:"date"`
}
