// Package analysis is the contract of the document analysis collaborator and
// an HTTP client for it.
package analysis

import (
	"context"
	"errors"
	"fmt"
)

// FallbackDetail replaces an empty detail in a failed response.
const FallbackDetail = "An error occurred during analysis."

type Request struct {
	DocumentText string `json:"documentText" binding:"required"`
}

type Response struct {
	Analysis string `json:"analysis"`
}

type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Response, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, req Request) (*Response, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Error is a non-success response of the collaborator.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("analysis failed with status %d: %s", e.StatusCode, e.Detail)
}

// Detail is the text shown to the user for a failed call: the collaborator's
// detail verbatim, or the error text for transport failures.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var aerr *Error
	if errors.As(err, &aerr) {
		if aerr.Detail == "" {
			return FallbackDetail
		}
		return aerr.Detail
	}
	return err.Error()
}
