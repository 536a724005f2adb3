package models

import "time"

// Extracted is the plain-text result of reading an uploaded document.
type Extracted struct {
	Text       string
	Title      string
	SourceFile string
	Format     string
}

// IndexedDocument is the flattened row stored in the vector index.
type IndexedDocument struct {
	ID                 string
	Title              string
	Content            string
	Requirements       string
	BudgetRange        string
	SubmissionDeadline string
	Keywords           string
	CreatedAt          time.Time
}

// SearchResult pairs an indexed document with its similarity score.
type SearchResult struct {
	Document IndexedDocument
	Score    float64
}
