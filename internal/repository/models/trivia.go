package models

// Category maps a row of the categories table
type Category struct {
	ID   int64  `db:"id"`
	Type string `db:"type"`
}

// Question maps a row of the questions table.
// The category column holds the owning category id.
type Question struct {
	ID         int64  `db:"id"`
	Question   string `db:"question"`
	Answer     string `db:"answer"`
	Category   int64  `db:"category"`
	Difficulty int    `db:"difficulty"`
}
