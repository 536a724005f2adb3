package models

import "errors"

// Failure kinds surfaced by the pipeline. Callers match them with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtraction        = errors.New("text extraction failed")
	ErrAnalysis          = errors.New("rfp analysis failed")
	ErrParse             = errors.New("model reply could not be parsed")
	ErrStore             = errors.New("index store failed")
	ErrSearch            = errors.New("similarity search failed")
	ErrAnswer            = errors.New("answer generation failed")
)
