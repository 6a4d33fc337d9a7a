package postgres

import "access-service/internal/repository"

var (
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.OrganizationRepository = (*OrganizationRepository)(nil)
	_ repository.ProjectRepository      = (*ProjectRepository)(nil)
	_ repository.RoleRepository         = (*RoleRepository)(nil)
	_ repository.GroupRepository        = (*GroupRepository)(nil)
	_ repository.AssignmentRepository   = (*AssignmentRepository)(nil)
	_ repository.RoleTypeLister         = (*RoleRepository)(nil)
	_ repository.MemberGetter           = (*OrganizationRepository)(nil)
)
