package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "cart:manage"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivCatalogView        = "catalog:view"
	PrivCartManage         = "cart:manage"
	PrivOrderPlace         = "order:place"
	PrivTransactionView    = "transaction:view"
	PrivProductCreate      = "product:create"
	PrivCategoryCreate     = "category:create"
	PrivStockUpdate        = "stock:update"
	PrivCustomerView       = "customer:view"
	PrivTransactionViewAll = "transaction:view_all"
	PrivDepletedView       = "depleted:view"
	PrivDashboardView      = "dashboard:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Shopping
	{Code: PrivCatalogView, Name: "View Catalog"},
	{Code: PrivCartManage, Name: "Manage Cart"},
	{Code: PrivOrderPlace, Name: "Place Order"},
	{Code: PrivTransactionView, Name: "View Own Transactions"},
	// Inventory management
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivCategoryCreate, Name: "Create Category"},
	{Code: PrivStockUpdate, Name: "Update Stock"},
	// Reports
	{Code: PrivCustomerView, Name: "View Customers"},
	{Code: PrivTransactionViewAll, Name: "View All Transactions"},
	{Code: PrivDepletedView, Name: "View Depleted Stock"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
}

// CustomerPrivileges are granted to every self-registered account.
var CustomerPrivileges = []string{
	PrivCatalogView,
	PrivCartManage,
	PrivOrderPlace,
	PrivTransactionView,
}
