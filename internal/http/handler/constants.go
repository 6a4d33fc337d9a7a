package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"
	jsonKeyReasons = "reasons"

	paramID           = "id"
	paramAssignmentID = "assignment_id"
	queryProjectID    = "project_id"
	queryLimit        = "limit"
	queryOffset       = "offset"
)

const (
	msgContentTypeJSONRequired = "content type must be application/json"
	msgInvalidRequestBody      = "invalid request body"

	msgInvalidCredentials  = "invalid email or password"
	msgEmailAlreadyExists  = "email already exists"
	msgPasswordProcessFail = "failed to process password"
	msgCreateAccountFail   = "failed to create account"
	msgGenerateTokenFail   = "failed to generate token"

	msgCreateOrganizationFail = "failed to create organization"
	msgListOrganizationsFail  = "failed to list organizations"
	msgListMembersFail        = "failed to list members"
	msgAddMemberFail          = "failed to add member"
	msgUserNotFound           = "user not found"
	msgMemberAlreadyExists    = "user is already a member of this organization"

	msgInvalidProjectID  = "invalid project id"
	msgProjectNotFound   = "project not found"
	msgProjectExists     = "a project with this name already exists"
	msgCreateProjectFail = "failed to create project"
	msgListProjectsFail  = "failed to list projects"
	msgDeleteProjectFail = "failed to delete project"

	msgInvalidRoleID   = "invalid role id"
	msgRoleNotFound    = "role not found"
	msgRoleExists      = "a role with this name already exists"
	msgCreateRoleFail  = "failed to create role"
	msgListRolesFail   = "failed to list roles"
	msgDeleteRoleFail  = "failed to delete role"
	msgSystemRoleFixed = "system roles cannot be deleted"
	msgRoleInUse       = "role is still assigned"

	msgGroupNotFound    = "group not found"
	msgGroupExists      = "a group with this name already exists"
	msgCreateGroupFail  = "failed to create group"
	msgListGroupsFail   = "failed to list groups"
	msgInvalidGroupID   = "invalid group id"
	msgInvalidEntityID  = "invalid entity id"
	msgEntityNotMember  = "user is not a member of this organization"
	msgEntityKindFormat = "invalid entity kind"

	msgInvalidAssignmentID   = "invalid assignment id"
	msgAssignmentNotFound    = "role assignment not found"
	msgAssignmentExists      = "role assignment already exists"
	msgProjectRequired       = "project_id is required"
	msgListAssignmentsFail   = "failed to list role assignments"
	msgCreateAssignmentFail  = "failed to create role assignment"
	msgDeleteAssignmentFail  = "failed to delete role assignment"
	msgPolicyEvaluationFail  = "failed to evaluate assignment policy"
	msgAssignmentDenied      = "assignment denied by policy"
	msgPreviewAssignmentFail = "failed to preview role assignment"
	msgLookupFail            = "failed to load referenced resources"

	msgAccessReviewDisabled = "access review export is not configured"
	msgAccessReviewFail     = "failed to export access review"
	msgListAuditEventsFail  = "failed to list audit events"
	msgInvalidPagination    = "invalid pagination parameters"

	msgLoadPermissionsFail = "failed to load permissions"
)
