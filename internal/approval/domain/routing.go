package domain

import "errors"

// Role identifies a maker or checker within the registry hierarchy.
type Role string

const (
	RoleSubCityOfficer Role = "SUB_CITY_OFFICER"
	RoleSubCityAdmin   Role = "SUB_CITY_ADMIN"
	RoleRevenueOfficer Role = "REVENUE_OFFICER"
	RoleRevenueAdmin   Role = "REVENUE_ADMIN"
	RoleCityOfficer    Role = "CITY_OFFICER"
	RoleCityAdmin      Role = "CITY_ADMIN"
	RoleSuperAdmin     Role = "SUPER_ADMIN"
)

var ErrUnroutableRole = errors.New("unroutable_maker_role")

// approverByMaker is the single routing table for maker-checker review.
// Entity-type-specific callers never duplicate approval-role logic.
var approverByMaker = map[Role]Role{
	RoleSubCityOfficer: RoleSubCityAdmin,
	RoleRevenueOfficer: RoleRevenueAdmin,
	RoleCityOfficer:    RoleCityAdmin,
}

// ApproverFor returns the checker role required to decide a request made by
// makerRole. The mapping is independent of entity type.
func ApproverFor(makerRole Role) (Role, error) {
	approver, ok := approverByMaker[makerRole]
	if !ok {
		return "", ErrUnroutableRole
	}
	return approver, nil
}

// CanDecide reports whether checkerRole satisfies the stored approver role.
// SUPER_ADMIN may decide any request.
func CanDecide(checkerRole, approverRole Role) bool {
	if checkerRole == RoleSuperAdmin {
		return true
	}
	return checkerRole == approverRole
}
