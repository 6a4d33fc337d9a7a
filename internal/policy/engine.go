// Package policy evaluates the role-assignment grant policy with OPA Rego.
package policy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

const (
	decisionQuery = "data.access.assignment.decision"
	moduleName    = "assignment.rego"

	errReadPolicyFmt     = "read policy file: %w"
	errCompilePolicyFmt  = "compile policy: %w"
	errPreparePolicyFmt  = "prepare policy: %w"
	errEvalPolicyFmt     = "eval policy: %w"
	errMalformedDecision = "policy decision is malformed"
)

// ErrNoResult is returned when the policy does not define a decision.
var ErrNoResult = errors.New("policy query returned no result")

// DefaultModule is the grant policy used when no policy file is configured.
const DefaultModule = `package access.assignment

org_wide_types := {"owner", "admin", "administrator"}

admin_types := {"owner", "admin", "administrator"}

caller_is_owner if "owner" in input.caller.roles

caller_is_admin if {
	some r in input.caller.roles
	r in admin_types
}

deny contains "only an owner may grant the owner role" if {
	input.grant.role_type == "owner"
	not caller_is_owner
}

deny contains "only an owner or admin may grant an organization-wide role" if {
	input.grant.role_type in org_wide_types
	not caller_is_admin
}

default allow := false

allow if count(deny) == 0

decision := {"allow": allow, "reasons": deny}
`

// Caller is the user asking for the grant.
type Caller struct {
	UserID string
	Roles  []string
}

// Grant describes the assignment being created.
type Grant struct {
	RoleType   string
	EntityKind string
	EntityID   string
	ProjectID  string
}

// Decision is the evaluated policy outcome.
type Decision struct {
	Allow   bool
	Reasons []string
}

// Engine holds a prepared grant policy query.
type Engine struct {
	query rego.PreparedEvalQuery
}

// New compiles module and prepares the decision query. An empty module
// selects DefaultModule.
func New(ctx context.Context, module string) (*Engine, error) {
	if module == "" {
		module = DefaultModule
	}

	compiler, err := ast.CompileModules(map[string]string{moduleName: module})
	if err != nil {
		return nil, fmt.Errorf(errCompilePolicyFmt, err)
	}

	pq, err := rego.New(
		rego.Query(decisionQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf(errPreparePolicyFmt, err)
	}

	return &Engine{query: pq}, nil
}

// NewFromFile loads the policy at path, falling back to DefaultModule when
// path is empty.
func NewFromFile(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return New(ctx, "")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(errReadPolicyFmt, err)
	}
	return New(ctx, string(b))
}

// Evaluate runs the grant policy for caller and grant.
func (e *Engine) Evaluate(ctx context.Context, caller Caller, grant Grant) (Decision, error) {
	rs, err := e.query.Eval(ctx, rego.EvalInput(buildInput(caller, grant)))
	if err != nil {
		return Decision{}, fmt.Errorf(errEvalPolicyFmt, err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return Decision{}, ErrNoResult
	}

	obj, ok := rs[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Decision{}, errors.New(errMalformedDecision)
	}

	var d Decision
	if allow, ok := obj["allow"].(bool); ok {
		d.Allow = allow
	}
	if reasons, ok := obj["reasons"].([]interface{}); ok {
		for _, r := range reasons {
			if s, ok := r.(string); ok {
				d.Reasons = append(d.Reasons, s)
			}
		}
	}
	sort.Strings(d.Reasons)
	return d, nil
}

// HealthCheck evaluates the policy with an owner granting a viewer role.
func (e *Engine) HealthCheck(ctx context.Context) error {
	_, err := e.Evaluate(ctx, Caller{Roles: []string{"owner"}}, Grant{RoleType: "viewer", EntityKind: "user"})
	return err
}

func buildInput(caller Caller, grant Grant) map[string]interface{} {
	roles := make([]interface{}, 0, len(caller.Roles))
	for _, r := range caller.Roles {
		roles = append(roles, r)
	}

	return map[string]interface{}{
		"caller": map[string]interface{}{
			"user_id": caller.UserID,
			"roles":   roles,
		},
		"grant": map[string]interface{}{
			"role_type":   grant.RoleType,
			"entity_kind": grant.EntityKind,
			"entity_id":   grant.EntityID,
			"project_id":  grant.ProjectID,
		},
	}
}
