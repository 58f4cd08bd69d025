package errors

// Stable error codes returned in API error bodies.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeHierarchyViolation  = "HIERARCHY_VIOLATION"
	CodeInvalidSlab         = "INVALID_SLAB"
	CodeSlabOverlap         = "SLAB_OVERLAP"
	CodeNoSlab              = "NO_SLAB_FOR_AMOUNT"
	CodeAmountOutOfRange    = "AMOUNT_OUT_OF_RANGE"
	CodeInvalidEnum         = "INVALID_ENUM"
	CodeNegativeNet         = "NEGATIVE_NET_COMMISSION"
	CodeFieldNotEditable    = "FIELD_NOT_EDITABLE"
	CodeActionForbidden     = "ACTION_FORBIDDEN"
	CodeSchemeAccessDenied  = "SCHEME_ACCESS_DENIED"
	CodeSchemeNotFound      = "SCHEME_NOT_FOUND"
	CodeCommissionNotFound  = "COMMISSION_NOT_FOUND"
	CodeSlabNotFound        = "SLAB_NOT_FOUND"
	CodeOperatorNotFound    = "OPERATOR_NOT_FOUND"
	CodeDuplicateCommission = "DUPLICATE_ACTIVE_COMMISSION"
	CodeDuplicateSchemeName = "DUPLICATE_SCHEME_NAME"
	CodeDuplicateOperator   = "DUPLICATE_OPERATOR"
	CodeBulkLimitExceeded   = "BULK_LIMIT_EXCEEDED"
)

var (
	ErrSchemeNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    CodeSchemeNotFound,
		Message: "scheme not found",
	}
	ErrCommissionNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    CodeCommissionNotFound,
		Message: "commission not found",
	}
	ErrSlabNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    CodeSlabNotFound,
		Message: "commission slab not found",
	}
	ErrOperatorNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    CodeOperatorNotFound,
		Message: "service operator not found",
	}
	ErrDuplicateCommission = &DomainError{
		Kind:    KindConflict,
		Code:    CodeDuplicateCommission,
		Message: "an active commission already exists for this scheme, operator and service",
	}
	ErrSchemeAccessDenied = &DomainError{
		Kind:    KindPermission,
		Code:    CodeSchemeAccessDenied,
		Message: "you do not have access to this scheme",
	}
)
