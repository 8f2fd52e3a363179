package enum

// Role is the role tag carried in the backend's user profile
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleEmployee   Role = "empleado"
	RoleSuperAdmin Role = "Super-admin"
)

// AssignableRoles are the roles an administrator may give to a user
var AssignableRoles = []Role{RoleAdmin, RoleEmployee}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAssignable reports whether the role can be set through the user screens
func (r Role) IsAssignable() bool {
	for _, a := range AssignableRoles {
		if a == r {
			return true
		}
	}
	return false
}

// Home is the landing section the console routes a role to after login
func (r Role) Home() string {
	switch r {
	case RoleAdmin:
		return "admin-home"
	case RoleEmployee:
		return "empleado-home"
	case RoleSuperAdmin:
		return "superadmin-home"
	}
	return "home"
}

// Capability is one action or view a role may be permitted
type Capability string

const (
	CapViewUsers        Capability = "view-users"
	CapManageUsers      Capability = "manage-users"
	CapViewProducts     Capability = "view-products"
	CapManageProducts   Capability = "manage-products"
	CapDeleteProducts   Capability = "delete-products"
	CapRecordSales      Capability = "record-sales"
	CapViewSalesHistory Capability = "view-sales-history"
	CapEditOwnSales     Capability = "edit-own-sales"
	CapEditAnySale      Capability = "edit-any-sale"
	CapDeleteSales      Capability = "delete-sales"
	CapViewBaskets      Capability = "view-baskets"
	CapViewDashboard    Capability = "view-dashboard"
	CapViewTopSales     Capability = "view-top-sales"
	CapExportReports    Capability = "export-reports"
	CapPrintTickets     Capability = "print-tickets"
)

// CapabilitySet is the resolved set of capabilities for one role
type CapabilitySet map[Capability]bool

// Has reports whether c is in the set
func (s CapabilitySet) Has(c Capability) bool {
	return s[c]
}

// List returns the capabilities in declaration order
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s))
	for _, c := range allCapabilities {
		if s[c] {
			out = append(out, c)
		}
	}
	return out
}

var allCapabilities = []Capability{
	CapViewUsers, CapManageUsers,
	CapViewProducts, CapManageProducts, CapDeleteProducts,
	CapRecordSales, CapViewSalesHistory, CapEditOwnSales, CapEditAnySale, CapDeleteSales,
	CapViewBaskets, CapViewDashboard, CapViewTopSales, CapExportReports, CapPrintTickets,
}

var employeeCaps = []Capability{
	CapViewProducts, CapManageProducts,
	CapRecordSales, CapViewSalesHistory, CapEditOwnSales,
	CapViewBaskets, CapViewDashboard, CapPrintTickets,
}

var adminCaps = append(append([]Capability{}, employeeCaps...),
	CapViewUsers, CapManageUsers, CapDeleteProducts, CapDeleteSales, CapViewTopSales, CapExportReports,
)

var roleCapabilities = map[Role][]Capability{
	RoleEmployee:   employeeCaps,
	RoleAdmin:      adminCaps,
	RoleSuperAdmin: append(append([]Capability{}, adminCaps...), CapEditAnySale),
}

// CapabilitiesFor resolves a role to its permitted actions. Every screen asks this function
// instead of comparing role strings. Unknown roles get nothing.
func CapabilitiesFor(r Role) CapabilitySet {
	set := CapabilitySet{}
	for _, c := range roleCapabilities[r] {
		set[c] = true
	}
	return set
}

// Can is shorthand for CapabilitiesFor(r).Has(c)
func (r Role) Can(c Capability) bool {
	return CapabilitiesFor(r).Has(c)
}

// Section is a navigation entry of the console
type Section struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var sections = []struct {
	section Section
	needs   Capability
}{
	{Section{Key: "usuarios", Label: "Usuarios"}, CapViewUsers},
	{Section{Key: "productos", Label: "Productos"}, CapViewProducts},
	{Section{Key: "ventas", Label: "Ventas"}, CapRecordSales},
	{Section{Key: "historial-ventas", Label: "Historial de Ventas"}, CapViewSalesHistory},
	{Section{Key: "canastos", Label: "Canastos"}, CapViewBaskets},
	{Section{Key: "dashboard", Label: "Dashboard"}, CapViewDashboard},
}

// SectionsFor lists the navigation sections visible to a role
func SectionsFor(r Role) []Section {
	caps := CapabilitiesFor(r)
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if caps.Has(s.needs) {
			out = append(out, s.section)
		}
	}
	return out
}
