package access

// Role is the job a staff account holds.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleHotelManager Role = "hotel_manager"
	RoleReceptionist Role = "receptionist"
	RoleStorekeeper  Role = "storekeeper"
	RoleAccountant   Role = "accountant"
)

// Department groups the resources a role may touch.
type Department string

const (
	DepartmentHotel     Department = "hotel"
	DepartmentWarehouse Department = "warehouse"
	DepartmentFinance   Department = "finance"
)

var departments = map[Role][]Department{
	RoleAdmin:        {DepartmentHotel, DepartmentWarehouse, DepartmentFinance},
	RoleHotelManager: {DepartmentHotel, DepartmentFinance},
	RoleReceptionist: {DepartmentHotel},
	RoleStorekeeper:  {DepartmentWarehouse},
	RoleAccountant:   {DepartmentFinance},
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := departments[r]
	return r, ok
}

// Permitted reports whether role may act on resources of dept. Unknown roles
// are permitted nothing.
func Permitted(role Role, dept Department) bool {
	for _, d := range departments[role] {
		if d == dept {
			return true
		}
	}
	return false
}
