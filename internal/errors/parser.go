package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres error classes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is a parsed error: an API code plus a safe message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a storage error into an API code and message without
// leaking internals. context is a short hint like "product" or "enquiry"
// used to pick resource-specific wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    notFoundCode(context),
			Message: notFoundMessage(context),
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseUniqueViolation(pqErr, context)
		case pgForeignKeyViolation:
			return parseForeignKeyViolation(pqErr, context)
		case pgNotNullViolation:
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: "A required field is missing",
			}
		case pgCheckViolation:
			return ErrorInfo{
				Code:    ValidationInvalidInput,
				Message: "A field value is out of range",
			}
		}
	}

	// The sqlite test driver reports constraint failures as plain strings
	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "unique constraint") || strings.Contains(errLower, "duplicate key") {
		return parseUniqueText(errLower, context)
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Storage is temporarily unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "An internal error occurred. Please try again later",
	}
}

func parseUniqueViolation(pqErr *pq.Error, context string) ErrorInfo {
	return parseUniqueText(strings.ToLower(pqErr.Constraint+" "+pqErr.Detail), context)
}

func parseUniqueText(text string, context string) ErrorInfo {
	if strings.Contains(text, "sku") {
		return ErrorInfo{
			Code:    ProductSKUExists,
			Message: "A product with this SKU already exists",
		}
	}
	if strings.Contains(text, "slug") {
		return ErrorInfo{
			Code:    CategorySlugExists,
			Message: "A category with this slug already exists",
		}
	}
	if strings.Contains(text, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already registered",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyViolation(pqErr *pq.Error, context string) ErrorInfo {
	detail := strings.ToLower(pqErr.Detail)
	if strings.Contains(detail, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record is referenced by other data and cannot be deleted",
		}
	}
	if strings.Contains(detail, "category") {
		return ErrorInfo{
			Code:    CategoryNotFound,
			Message: "The referenced category does not exist",
		}
	}
	if strings.Contains(detail, "product") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "The referenced product does not exist",
		}
	}
	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record does not exist",
	}
}

func notFoundCode(context string) string {
	switch {
	case strings.Contains(context, "category"):
		return CategoryNotFound
	case strings.Contains(context, "product"):
		return ProductNotFound
	case strings.Contains(context, "enquiry"):
		return EnquiryNotFound
	default:
		return ResourceNotFound
	}
}

func notFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "category"):
		return "Category not found"
	case strings.Contains(context, "product"):
		return "Product not found"
	case strings.Contains(context, "enquiry"):
		return "Enquiry not found"
	default:
		return "The requested record was not found"
	}
}
