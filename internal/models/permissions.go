package models

// Objects guarded by the coarse permission policy.
const (
	ObjectScheme     = "scheme"
	ObjectCommission = "commission"
	ObjectOperator   = "operator"
)

// Actions on guarded objects.
const (
	ActionCreate    = "create"
	ActionRead      = "read"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionCalculate = "calculate"
	ActionExport    = "export"
)
