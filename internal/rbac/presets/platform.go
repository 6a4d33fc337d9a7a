package presets

import "access-service/internal/rbac"

const (
	RoleOwner         rbac.Role = "owner"
	RoleAdmin         rbac.Role = "admin"
	RoleAdministrator rbac.Role = "administrator"
	RoleQAManager     rbac.Role = "qa_manager"
	RoleProductOwner  rbac.Role = "product_owner"
	RoleQALead        rbac.Role = "qa_lead"
	RoleQAEngineer    rbac.Role = "qa_engineer"
	RoleViewer        rbac.Role = "viewer"

	ResourceOrganization   rbac.Resource = "organization"
	ResourceProject        rbac.Resource = "project"
	ResourceRole           rbac.Resource = "role"
	ResourceRoleAssignment rbac.Resource = "role_assignment"
	ResourceGroup          rbac.Resource = "group"
	ResourceMember         rbac.Resource = "member"
	ResourceTestCase       rbac.Resource = "test_case"
	ResourceTestRun        rbac.Resource = "test_run"
	ResourceDefect         rbac.Resource = "defect"
	ResourceReport         rbac.Resource = "report"

	ActionRead   rbac.Action = "read"
	ActionWrite  rbac.Action = "write"
	ActionDelete rbac.Action = "delete"
	ActionManage rbac.Action = "manage"
)

var (
	readOnly = []rbac.Action{ActionRead}
	editor   = []rbac.Action{ActionRead, ActionWrite}
	full     = []rbac.Action{ActionRead, ActionWrite, ActionDelete}
	all      = []rbac.Action{ActionRead, ActionWrite, ActionDelete, ActionManage}
)

// Platform returns the permission matrix for the QA platform roles
func Platform() rbac.Config {
	return rbac.Config{
		Roles: []rbac.RoleDefinition{
			{Name: RoleOwner, Level: 7},
			{Name: RoleAdmin, Level: 6},
			{Name: RoleQAManager, Level: 5},
			{Name: RoleProductOwner, Level: 4},
			{Name: RoleQALead, Level: 3},
			{Name: RoleQAEngineer, Level: 2},
			{Name: RoleViewer, Level: 1},
		},
		Aliases: []rbac.Alias{
			{From: RoleAdministrator, To: RoleAdmin},
		},
		Resources: []rbac.Resource{
			ResourceOrganization,
			ResourceProject,
			ResourceRole,
			ResourceRoleAssignment,
			ResourceGroup,
			ResourceMember,
			ResourceTestCase,
			ResourceTestRun,
			ResourceDefect,
			ResourceReport,
		},
		Actions: []rbac.Action{
			ActionRead,
			ActionWrite,
			ActionDelete,
			ActionManage,
		},
		Capabilities: map[rbac.Role]map[rbac.Resource][]rbac.Action{
			RoleOwner: {
				ResourceOrganization:   all,
				ResourceProject:        all,
				ResourceRole:           all,
				ResourceRoleAssignment: all,
				ResourceGroup:          all,
				ResourceMember:         all,
				ResourceTestCase:       all,
				ResourceTestRun:        all,
				ResourceDefect:         all,
				ResourceReport:         all,
			},
			RoleAdmin: {
				ResourceOrganization:   editor,
				ResourceProject:        all,
				ResourceRole:           all,
				ResourceRoleAssignment: all,
				ResourceGroup:          all,
				ResourceMember:         all,
				ResourceTestCase:       all,
				ResourceTestRun:        all,
				ResourceDefect:         all,
				ResourceReport:         all,
			},
			RoleQAManager: {
				ResourceOrganization:   readOnly,
				ResourceProject:        editor,
				ResourceRole:           readOnly,
				ResourceRoleAssignment: full,
				ResourceGroup:          editor,
				ResourceMember:         readOnly,
				ResourceTestCase:       all,
				ResourceTestRun:        all,
				ResourceDefect:         all,
				ResourceReport:         full,
			},
			RoleProductOwner: {
				ResourceOrganization:   readOnly,
				ResourceProject:        editor,
				ResourceRole:           readOnly,
				ResourceRoleAssignment: readOnly,
				ResourceGroup:          readOnly,
				ResourceMember:         readOnly,
				ResourceTestCase:       readOnly,
				ResourceTestRun:        readOnly,
				ResourceDefect:         editor,
				ResourceReport:         editor,
			},
			RoleQALead: {
				ResourceOrganization:   readOnly,
				ResourceProject:        readOnly,
				ResourceRole:           readOnly,
				ResourceRoleAssignment: readOnly,
				ResourceGroup:          readOnly,
				ResourceMember:         readOnly,
				ResourceTestCase:       full,
				ResourceTestRun:        full,
				ResourceDefect:         full,
				ResourceReport:         editor,
			},
			RoleQAEngineer: {
				ResourceOrganization: readOnly,
				ResourceProject:      readOnly,
				ResourceTestCase:     editor,
				ResourceTestRun:      editor,
				ResourceDefect:       editor,
				ResourceReport:       readOnly,
			},
			RoleViewer: {
				ResourceOrganization: readOnly,
				ResourceProject:      readOnly,
				ResourceTestCase:     readOnly,
				ResourceTestRun:      readOnly,
				ResourceDefect:       readOnly,
				ResourceReport:       readOnly,
			},
		},
	}
}
