package commission

// Default configuration values
const (
	DefaultBulkMaxEntries = 500
)

// Operation names used for metrics and logs.
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpBulkCreate = "bulk_create"
	OpBulkUpdate = "bulk_update"
	OpSlab       = "slab"
	OpCalculate  = "calculate"
	OpExport     = "export"
)

// Cache keys
const (
	LookupCacheEntity = "commission"
	LookupCacheType   = "lookup"
	LookupCacheName   = "commission_lookup"
)

// CSV export columns, in order.
var exportHeader = []string{
	"operator",
	"service_type",
	"commission_type",
	"admin",
	"whitelabel",
	"masterdistributor",
	"distributor",
	"retailer",
	"customer",
	"min_amount",
	"max_amount",
	"slab_min",
	"slab_max",
}
