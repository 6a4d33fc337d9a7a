package postgres

import (
	"fmt"
	"time"
)

const (
	defaultProjectName        = "Default"
	defaultProjectDescription = "Created with the organization"

	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound         = "user not found"
	errOrganizationNotFound = "organization not found"
	errMemberNotFound       = "member not found"
	errProjectNotFound      = "project not found"
	errRoleNotFound         = "role not found"
	errGroupNotFound        = "group not found"
	errAssignmentNotFound   = "role assignment not found"

	errEmailExists         = "user with this email already exists"
	errMemberExists        = "user is already a member of this organization"
	errProjectNameExists   = "project with this name already exists"
	errRoleNameExists      = "role with this name already exists"
	errGroupNameExists     = "group with this name already exists"
	errAssignmentExists    = "role assignment already exists"
	errRoleInUse           = "role is still assigned"
	errAssignmentReference = "role, project or creator does not exist"
	errSystemRoleImmutable = "system roles cannot be deleted"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedStartTransactionFmt     = "failed to start transaction: %w"
	errFailedCommitTransactionFmt    = "failed to commit transaction: %w"
	errFailedCreateOrganizationFmt   = "failed to create organization: %w"
	errFailedSeedRoleFmt             = "failed to seed role %s: %w"
	errFailedCreateDefaultProjectFmt = "failed to create default project: %w"
	errFailedAssignOwnerFmt          = "failed to assign owner: %w"
	errFailedGetOrganizationFmt      = "failed to get organization: %w"
	errFailedListOrganizationsFmt    = "failed to list organizations: %w"
	errFailedScanOrganizationFmt     = "failed to scan organization: %w"
	errFailedAddMemberFmt            = "failed to add member: %w"
	errFailedGetMemberFmt            = "failed to get member: %w"
	errFailedListMembersFmt          = "failed to list members: %w"
	errFailedScanMemberFmt           = "failed to scan member: %w"
	errFailedCreateUserFmt           = "failed to create user: %w"
	errFailedGetUserFmt              = "failed to get user: %w"
	errFailedCreateProjectFmt        = "failed to create project: %w"
	errFailedGetProjectFmt           = "failed to get project: %w"
	errFailedListProjectsFmt         = "failed to list projects: %w"
	errFailedScanProjectFmt          = "failed to scan project: %w"
	errFailedDeleteProjectFmt        = "failed to delete project: %w"
	errFailedCreateRoleFmt           = "failed to create role: %w"
	errFailedGetRoleFmt              = "failed to get role: %w"
	errFailedListRolesFmt            = "failed to list roles: %w"
	errFailedScanRoleFmt             = "failed to scan role: %w"
	errFailedDeleteRoleFmt           = "failed to delete role: %w"
	errFailedListRoleTypesFmt        = "failed to list role types: %w"
	errFailedCreateGroupFmt          = "failed to create group: %w"
	errFailedGetGroupFmt             = "failed to get group: %w"
	errFailedListGroupsFmt           = "failed to list groups: %w"
	errFailedScanGroupFmt            = "failed to scan group: %w"
	errFailedCreateAssignmentFmt     = "failed to create role assignment: %w"
	errFailedGetAssignmentFmt        = "failed to get role assignment: %w"
	errFailedListAssignmentsFmt      = "failed to list role assignments: %w"
	errFailedScanAssignmentFmt       = "failed to scan role assignment: %w"
	errFailedDeleteAssignmentFmt     = "failed to delete role assignment: %w"
	errFailedListReviewEntriesFmt    = "failed to list access review entries: %w"
	errFailedScanReviewEntryFmt      = "failed to scan access review entry: %w"
	errIterateRowsFmt                = "error iterating rows: %w"
)

var (
	errFailedAddMember            = func(err error) error { return fmt.Errorf(errFailedAddMemberFmt, err) }
	errFailedAssignOwner          = func(err error) error { return fmt.Errorf(errFailedAssignOwnerFmt, err) }
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedCreateAssignment     = func(err error) error { return fmt.Errorf(errFailedCreateAssignmentFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedCreateDefaultProject = func(err error) error { return fmt.Errorf(errFailedCreateDefaultProjectFmt, err) }
	errFailedCreateGroup          = func(err error) error { return fmt.Errorf(errFailedCreateGroupFmt, err) }
	errFailedCreateOrganization   = func(err error) error { return fmt.Errorf(errFailedCreateOrganizationFmt, err) }
	errFailedCreateProject        = func(err error) error { return fmt.Errorf(errFailedCreateProjectFmt, err) }
	errFailedCreateRole           = func(err error) error { return fmt.Errorf(errFailedCreateRoleFmt, err) }
	errFailedCreateUser           = func(err error) error { return fmt.Errorf(errFailedCreateUserFmt, err) }
	errFailedDeleteAssignment     = func(err error) error { return fmt.Errorf(errFailedDeleteAssignmentFmt, err) }
	errFailedDeleteProject        = func(err error) error { return fmt.Errorf(errFailedDeleteProjectFmt, err) }
	errFailedDeleteRole           = func(err error) error { return fmt.Errorf(errFailedDeleteRoleFmt, err) }
	errFailedGetAssignment        = func(err error) error { return fmt.Errorf(errFailedGetAssignmentFmt, err) }
	errFailedGetGroup             = func(err error) error { return fmt.Errorf(errFailedGetGroupFmt, err) }
	errFailedGetMember            = func(err error) error { return fmt.Errorf(errFailedGetMemberFmt, err) }
	errFailedGetOrganization      = func(err error) error { return fmt.Errorf(errFailedGetOrganizationFmt, err) }
	errFailedGetProject           = func(err error) error { return fmt.Errorf(errFailedGetProjectFmt, err) }
	errFailedGetRole              = func(err error) error { return fmt.Errorf(errFailedGetRoleFmt, err) }
	errFailedGetUser              = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }
	errFailedListAssignments      = func(err error) error { return fmt.Errorf(errFailedListAssignmentsFmt, err) }
	errFailedListGroups           = func(err error) error { return fmt.Errorf(errFailedListGroupsFmt, err) }
	errFailedListMembers          = func(err error) error { return fmt.Errorf(errFailedListMembersFmt, err) }
	errFailedListOrganizations    = func(err error) error { return fmt.Errorf(errFailedListOrganizationsFmt, err) }
	errFailedListProjects         = func(err error) error { return fmt.Errorf(errFailedListProjectsFmt, err) }
	errFailedListReviewEntries    = func(err error) error { return fmt.Errorf(errFailedListReviewEntriesFmt, err) }
	errFailedListRoleTypes        = func(err error) error { return fmt.Errorf(errFailedListRoleTypesFmt, err) }
	errFailedListRoles            = func(err error) error { return fmt.Errorf(errFailedListRolesFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedScanAssignment       = func(err error) error { return fmt.Errorf(errFailedScanAssignmentFmt, err) }
	errFailedScanGroup            = func(err error) error { return fmt.Errorf(errFailedScanGroupFmt, err) }
	errFailedScanMember           = func(err error) error { return fmt.Errorf(errFailedScanMemberFmt, err) }
	errFailedScanOrganization     = func(err error) error { return fmt.Errorf(errFailedScanOrganizationFmt, err) }
	errFailedScanProject          = func(err error) error { return fmt.Errorf(errFailedScanProjectFmt, err) }
	errFailedScanReviewEntry      = func(err error) error { return fmt.Errorf(errFailedScanReviewEntryFmt, err) }
	errFailedScanRole             = func(err error) error { return fmt.Errorf(errFailedScanRoleFmt, err) }
	errFailedSeedRole             = func(name string, err error) error { return fmt.Errorf(errFailedSeedRoleFmt, name, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errIterateRows                = func(err error) error { return fmt.Errorf(errIterateRowsFmt, err) }
)
